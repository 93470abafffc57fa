// Package pipeline runs one cloudlap job end to end:
//
//	acquire cloud → build operators → check Hermitian → print → persist
//
// Run is driven entirely by a config.Config; the three historical entry
// points (deterministic generator, random generator, fully configured run)
// are presets of that config. The solver is reached only through
// heat.Operators so tests and alternative backends can substitute it.
//
// Output files are named real_cl, complex_cl and mass_matrix, written as
// scipy .npz and MATLAB .mat, and are byte-identical across runs on the same
// input.
package pipeline
