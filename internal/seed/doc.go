// Package seed generates synthetic reading data for developing the
// dashboard and coach without real hardware.
//
// Readings follow plausible aquaponics curves: a diurnal temperature
// swing, a small daytime pH rise from photosynthesis, and TDS drift
// from feeding cycles, all with seeded random jitter so repeated runs
// with the same seed produce identical data.
package seed
