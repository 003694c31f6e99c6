// Package quality defines the information-loss contract consumed by the
// lattice: comparable scores, monotonicity flags and best/worst sentinels.
//
// Two reference models are provided. Scalar carries caller-computed loss
// values with configurable monotonicity. Height scores a transformation by
// its normalized generalization height.
//
// Lower scores are better.
package quality
