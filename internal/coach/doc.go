// Package coach generates water-quality coaching advice from recorded
// readings using the OpenAI chat completions API.
//
// It computes 7 and 30 day statistics over the reading store, builds a
// prompt describing the system and its target ranges, and asks the model
// for a strict JSON advice object. The result is written atomically to
// coach.json so the dashboard can serve it.
//
// Target operating ranges:
//   - pH: 6.6-7.2 (ideal ~6.9) balancing nitrification, fish tolerance,
//     and plant uptake
//   - TDS: 200-500 ppm (ideal ~350 ppm)
//   - Water temp: 24-28°C
//
// The coach is strictly advisory. A failed API call never affects
// sampling or the reading store.
package coach
