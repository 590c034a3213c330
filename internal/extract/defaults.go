package extract

// Format tags handled by the addon tools.
const (
	TagBin = ".bin"
	TagGMA = ".gma"
	TagISO = ".iso"
)

// AddonRegistry binds the two addon container formats to their tools.
func AddonRegistry(sevenZip, fastgmad Extractor) *Registry {
	return NewRegistry().
		Register(TagBin, sevenZip).
		Register(TagGMA, fastgmad)
}

// ArchiveRegistry binds the general archive formats to the in-process
// decoders. password is tried for encrypted archives.
func ArchiveRegistry(password string) *Registry {
	r := NewRegistry()
	lib := NewLibraryExtractor(password)
	for _, tag := range LibraryTags {
		r.Register(tag, lib)
	}
	r.Register(TagISO, ISOExtractor{})
	return r
}
