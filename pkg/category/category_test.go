package category

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify_Texture(t *testing.T) {
	cat, local, ok := Classify("astc/textures/rock.ktx")
	require.True(t, ok)
	assert.Equal(t, ASTC, cat)
	assert.Equal(t, "textures/rock.ktx", local)
}

func TestClassify_OS(t *testing.T) {
	cases := map[string]Category{
		"windows/bin/game.exe": Windows,
		"linux/bin/game":       Linux,
		"macos/game.app/a":     MacOS,
		"android/libs/x.so":    Android,
		"ios/Payload/x":        IOS,
	}
	for p, want := range cases {
		cat, _, ok := Classify(p)
		require.Truef(t, ok, "path %q should classify", p)
		assert.Equal(t, want, cat, p)
	}
}

func TestClassify_Platform(t *testing.T) {
	cat, local, ok := Classify("desktop/common/shared.dat")
	require.True(t, ok)
	assert.Equal(t, Desktop, cat)
	assert.Equal(t, "common/shared.dat", local)
}

func TestClassify_General(t *testing.T) {
	cat, local, ok := Classify("general/config.json")
	require.True(t, ok)
	assert.Equal(t, General, cat)
	assert.Equal(t, "config.json", local)
}

func TestClassify_NoMatch(t *testing.T) {
	_, _, ok := Classify("readme.txt")
	assert.False(t, ok)
}

func TestClassify_EmptyFolderDropped(t *testing.T) {
	_, _, ok := Classify("windows/")
	assert.False(t, ok)
}

func TestRelevantSet(t *testing.T) {
	set := RelevantSet(OSAndroid, TextureETC2)
	assert.Contains(t, set, General)
	assert.Contains(t, set, Mobile)
	assert.Contains(t, set, Android)
	assert.Contains(t, set, ETC2)
	assert.Len(t, set, 4)
}

func TestCategoryString(t *testing.T) {
	assert.Equal(t, "astc", ASTC.String())
	assert.Equal(t, "general", General.String())
	assert.Equal(t, "unknown", Category(999).String())
}
