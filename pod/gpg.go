package pod

import (
	"fmt"
	"slices"
	"strings"

	"github.com/vocdoni/pod2-sandbox/crypto/field"
)

// OriginRef names an origin as seen from inside one input POD.
type OriginRef struct {
	PodName    string
	OriginName string
}

// OriginTarget is the name and id an origin is rewritten to.
type OriginTarget struct {
	Name string
	ID   field.Element
}

// NamedPOD is an input POD bound to a local name.
type NamedPOD struct {
	Name string
	POD  *POD
}

// GPGInput is a set of named input PODs sorted by name together with the
// complete origin renaming map.
type GPGInput struct {
	PODs    []NamedPOD
	Renames map[OriginRef]OriginTarget
}

// NewGPGInput binds the PODs to their names. SELF origins are renamed to
// the POD name with the POD content id, NONE origins stay NONE and any
// other origin takes the rename given in renames, or "pod:origin", keeping
// its id.
func NewGPGInput(named map[string]*POD, renames map[OriginRef]string) (*GPGInput, error) {
	g := &GPGInput{
		PODs:    make([]NamedPOD, 0, len(named)),
		Renames: make(map[OriginRef]OriginTarget),
	}
	for name, p := range named {
		if name == SelfName || name == "" {
			return nil, fmt.Errorf("%w: reserved pod name %q", ErrInputShape, name)
		}
		if p == nil {
			return nil, fmt.Errorf("%w: pod %q is nil", ErrInputShape, name)
		}
		g.PODs = append(g.PODs, NamedPOD{Name: name, POD: p})
	}
	slices.SortFunc(g.PODs, func(a, b NamedPOD) int {
		return strings.Compare(a.Name, b.Name)
	})

	for _, np := range g.PODs {
		for _, ls := range np.POD.Payload {
			for _, ak := range ls.Statement.Keys {
				ref := OriginRef{PodName: np.Name, OriginName: ak.Origin.Name}
				if _, ok := g.Renames[ref]; ok {
					continue
				}
				switch {
				case ak.Origin.IsSelf():
					g.Renames[ref] = OriginTarget{Name: np.Name, ID: np.POD.ContentID()}
				case ak.Origin.IsNone():
					g.Renames[ref] = OriginTarget{ID: OriginIDNone}
				default:
					target := OriginTarget{Name: np.Name + ":" + ak.Origin.Name, ID: ak.Origin.ID}
					if rename, ok := renames[ref]; ok {
						target.Name = rename
					}
					g.Renames[ref] = target
				}
			}
		}
	}
	return g, nil
}

// Lookup returns the POD bound to name.
func (g *GPGInput) Lookup(name string) (*POD, bool) {
	i, ok := slices.BinarySearchFunc(g.PODs, name, func(np NamedPOD, name string) int {
		return strings.Compare(np.Name, name)
	})
	if !ok {
		return nil, false
	}
	return g.PODs[i].POD, true
}

// RemapOrigin returns the origin as rewritten for the POD named podName.
func (g *GPGInput) RemapOrigin(podName string, o Origin) (Origin, error) {
	target, ok := g.Renames[OriginRef{PodName: podName, OriginName: o.Name}]
	if !ok {
		return Origin{}, fmt.Errorf("%w: origin %s.%s", ErrLookupMissing, podName, o.Name)
	}
	return Origin{ID: target.ID, Name: target.Name, Gadget: o.Gadget}, nil
}

// RemapOriginIDsByName returns, for each input POD, its statements by label
// with every origin rewritten through the renaming map.
func (g *GPGInput) RemapOriginIDsByName() (Namespace, error) {
	ns := make(Namespace, len(g.PODs)+1)
	for _, np := range g.PODs {
		remap := func(o Origin) (Origin, error) {
			return g.RemapOrigin(np.Name, o)
		}
		statements := make(map[string]Statement, len(np.POD.Payload))
		for _, ls := range np.POD.Payload {
			st, err := ls.Statement.RemapOrigins(remap)
			if err != nil {
				return nil, err
			}
			statements[ls.Label] = st
		}
		ns[np.Name] = statements
	}
	return ns, nil
}
