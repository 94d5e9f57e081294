// Package category implements the update-file classification table
// (§3 Category, §9 Design Note "incomingFoldersRegexes"): an ordered set
// of regular expressions, one per category, each anchored at the root of
// the extracted archive and capturing the remaining relative path into
// group 1. Matching proceeds from the highest category index downward so
// texture/OS-specific folders are classified before the coarser
// desktop/mobile/general folders.
package category

import "regexp"

// Category is the finite classification enum of §3.
type Category int

const (
	General Category = iota
	Desktop
	Mobile
	Windows
	Linux
	MacOS
	Android
	IOS
	Uncompressed
	BC3
	BC7
	ETC2
	ASTC
)

func (c Category) String() string {
	switch c {
	case General:
		return "general"
	case Desktop:
		return "desktop"
	case Mobile:
		return "mobile"
	case Windows:
		return "windows"
	case Linux:
		return "linux"
	case MacOS:
		return "macos"
	case Android:
		return "android"
	case IOS:
		return "ios"
	case Uncompressed:
		return "uncompressed"
	case BC3:
		return "bc3"
	case BC7:
		return "bc7"
	case ETC2:
		return "etc2"
	case ASTC:
		return "astc"
	default:
		return "unknown"
	}
}

// rule pairs a category with the regex that recognizes its root folder
// inside the uploaded zip. Anchored at the archive root; group 1 captures
// the local_path under the category's folder.
type rule struct {
	category Category
	pattern  *regexp.Regexp
}

// table is ordered highest category index first, matching the "texture
// formats, then OS, then coarse platform, then general" precedence of
// SPEC_FULL.md §9. Folder names are the logical mount points an authoring
// client places assets under inside the zip.
var table = []rule{
	{ASTC, regexp.MustCompile(`^astc/(.+)$`)},
	{ETC2, regexp.MustCompile(`^etc2/(.+)$`)},
	{BC7, regexp.MustCompile(`^bc7/(.+)$`)},
	{BC3, regexp.MustCompile(`^bc3/(.+)$`)},
	{Uncompressed, regexp.MustCompile(`^uncompressed/(.+)$`)},
	{IOS, regexp.MustCompile(`^ios/(.+)$`)},
	{Android, regexp.MustCompile(`^android/(.+)$`)},
	{MacOS, regexp.MustCompile(`^macos/(.+)$`)},
	{Linux, regexp.MustCompile(`^linux/(.+)$`)},
	{Windows, regexp.MustCompile(`^windows/(.+)$`)},
	{Mobile, regexp.MustCompile(`^mobile/(.+)$`)},
	{Desktop, regexp.MustCompile(`^desktop/(.+)$`)},
	{General, regexp.MustCompile(`^general/(.+)$`)},
}

// Classify returns the category a relative path (forward-slash separated,
// no leading slash) belongs to and the captured local_path under its
// category root. ok is false if no rule matched — the caller drops the
// file silently per §4.6 step 4.
func Classify(relPath string) (cat Category, localPath string, ok bool) {
	for _, r := range table {
		if m := r.pattern.FindStringSubmatch(relPath); m != nil {
			return r.category, m[1], true
		}
	}
	return 0, "", false
}

// OS is the client-reported operating system index (§6 route table,
// `os∈[0,5]`).
type OS int

const (
	OSWindows OS = iota
	OSLinux
	OSMacOS
	OSAndroid
	OSIOS
	osReserved // index 5, reserved per §4.7
)

// Texture is the client-reported texture-family index (`texture∈[0,4]`).
type Texture int

const (
	TextureUncompressed Texture = iota
	TextureBC3
	TextureBC7
	TextureETC2
	TextureASTC
)

// PlatformLookup maps an OS to its coarse platform category (§4.7 step 3).
var PlatformLookup = map[OS]Category{
	OSWindows: Desktop,
	OSLinux:   Desktop,
	OSMacOS:   Desktop,
	OSAndroid: Mobile,
	OSIOS:     Mobile,
}

// OperatingSystemLookup is the identity OS mapping: each OS maps to its
// own OS category. It has no General entry, and the reserved OS index has
// no entry, so it contributes no OS category.
var OperatingSystemLookup = map[OS]Category{
	OSWindows: Windows,
	OSLinux:   Linux,
	OSMacOS:   MacOS,
	OSAndroid: Android,
	OSIOS:     IOS,
}

// TextureLookup maps a texture index to its category.
var TextureLookup = map[Texture]Category{
	TextureUncompressed: Uncompressed,
	TextureBC3:          BC3,
	TextureBC7:          BC7,
	TextureETC2:         ETC2,
	TextureASTC:         ASTC,
}

// RelevantSet computes the category set of §4.7 step 3 a caller on
// (os, texture) must receive files for.
func RelevantSet(os OS, texture Texture) map[Category]struct{} {
	set := map[Category]struct{}{General: {}}
	if c, ok := PlatformLookup[os]; ok {
		set[c] = struct{}{}
	}
	if c, ok := OperatingSystemLookup[os]; ok {
		set[c] = struct{}{}
	}
	if c, ok := TextureLookup[texture]; ok {
		set[c] = struct{}{}
	}
	return set
}
