package types

const (
	// RegistryTreeMaxLevels is the maximum number of levels of the POD
	// registry tree. Keys are 8 byte content ids.
	RegistryTreeMaxLevels = 64
	// RegistryKeyLen is the length in bytes of a registry tree key.
	RegistryKeyLen = RegistryTreeMaxLevels / 8
)
