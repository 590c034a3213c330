// Package extract maps file names to the capability that unpacks them.
//
// Every capability implements Extractor: given a source archive and an
// existing, empty destination directory it either materialises the archive's
// contents under the destination or returns an error. Callers treat the call
// as all-or-nothing and never inspect partial output.
//
// Three families are provided. CommandExtractor runs an external tool
// (7-Zip for .bin containers, fastgmad for .gma addons) and classifies its
// exit status and stderr. LibraryExtractor hands general archives to
// golift.io/xtractr. ISOExtractor copies the file tree of an ISO 9660 image
// using github.com/kdomanski/iso9660.
//
// A Registry resolves the format tag of a name longest suffix first, so
// "pack.tar.gz" is handled as ".tar.gz" rather than ".gz".
package extract
