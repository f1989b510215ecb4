package pod

import "fmt"

// Params is the shape tuple a recursion circuit is compiled for:
//   - L: POD1 introducer inputs (host only, always 0 in the circuit)
//   - M: max Schnorr POD inputs
//   - N: max prior recursive proof inputs
//   - NS: statements per POD
//   - VL: vector slot length
//
// Host-side gadgets only depend on NS and VL.
type Params struct {
	L  int `json:"l"`
	M  int `json:"m"`
	N  int `json:"n"`
	NS int `json:"ns"`
	VL int `json:"vl"`
}

// DefaultParams is the tuple used by the node unless configured otherwise.
var DefaultParams = Params{L: 0, M: 2, N: 1, NS: 8, VL: 4}

// Validate checks that the tuple can shape a circuit.
func (p Params) Validate() error {
	switch {
	case p.L < 0 || p.M < 0 || p.N < 0:
		return fmt.Errorf("%w: negative arity in %s", ErrInputShape, p)
	case p.M+p.N == 0:
		return fmt.Errorf("%w: no input slots in %s", ErrInputShape, p)
	case p.NS < 2:
		return fmt.Errorf("%w: NS must be at least 2 in %s", ErrInputShape, p)
	case p.VL < 1:
		return fmt.Errorf("%w: VL must be at least 1 in %s", ErrInputShape, p)
	}
	return nil
}

// String returns a compact form of the tuple, also used as cache key.
func (p Params) String() string {
	return fmt.Sprintf("L%d-M%d-N%d-NS%d-VL%d", p.L, p.M, p.N, p.NS, p.VL)
}
