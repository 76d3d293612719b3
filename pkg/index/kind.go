package index

// Kind is the level of an entity in the source-code hierarchy.
type Kind uint8

// Entity kinds, outermost first.
const (
	Project Kind = iota
	Package
	File
	Class
	Function
)

//nolint:gochecknoglobals // Static lookup tables.
var (
	kindNames = [...]string{
		Project:  "project",
		Package:  "package",
		File:     "file",
		Class:    "class",
		Function: "function",
	}

	// allowedChildren lists which kinds may be nested directly under each kind.
	allowedChildren = map[Kind][]Kind{
		Project: {Package, File},
		Package: {Package, File},
		File:    {Class, Function},
		Class:   {Function},
	}
)

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}

	return "unknown"
}

// CanContain reports whether an entity of kind child may be nested directly under k.
func (k Kind) CanContain(child Kind) bool {
	for _, allowed := range allowedChildren[k] {
		if allowed == child {
			return true
		}
	}

	return false
}

// ParseKind resolves a kind from its name.
func ParseKind(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name {
			return Kind(k), true
		}
	}

	return Project, false
}
