// Package circuits contains the gnark circuits that turn POD derivations
// into recursive PLONK proofs.
//
// The node circuit verifies up to M Schnorr PODs and N earlier node proofs,
// remaps their origins, runs the NS operations of a derivation and exposes
// the resulting statements as public inputs, followed by a digest of the
// verifying keys it accepts. Disabled recursive slots verify a proof of the
// dummy circuit instead, which has the same public input count and shares
// the KZG setup of the node circuit.
//
// +-----------+
// |   Node    |  BN254               <- native
// |           |  (BN254 inside)      <- inner, emulated
// +-----------+
//
// +-----------+
// |   Dummy   |  BN254               <- native
// +-----------+
//
// Goldilocks field arithmetic, Poseidon and the Schnorr verifier used by
// the node circuit live in the goldilocks subpackage.
package circuits
