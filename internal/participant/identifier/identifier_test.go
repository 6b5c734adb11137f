package identifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var defaultCodes = []string{"BE", "NL", "PL", "FR", "DE", "IT", "ES", "GB", "US", "TR"}

func TestNormalize(t *testing.T) {
	n := NewNormalizer(defaultCodes)

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "belgian vat", in: "BE0418159080", want: "0418159080"},
		{name: "lowercase prefix", in: "nl123456789B01", want: "123456789B01"},
		{name: "prefix only stays", in: "BE", want: "BE"},
		{name: "empty stays", in: "", want: ""},
		{name: "unknown prefix", in: "LU12345678", want: "LU12345678"},
		{name: "non alphanumeric remainder", in: "BE0418.159.080", want: "BE0418.159.080"},
		{name: "non ascii remainder", in: "DEäbc", want: "DEäbc"},
		{name: "plain digits", in: "1009049626", want: "1009049626"},
		{name: "repeated prefix strips to fixpoint", in: "BEBE123", want: "123"},
		{name: "stacked prefixes", in: "NLBE42", want: "42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, n.Normalize(tt.in))
		})
	}
}

func TestNormalizerConfiguredAllowlist(t *testing.T) {
	n := NewNormalizer([]string{" lu ", "XYZ", "1A", ""})

	assert.Equal(t, "12345678", n.Normalize("LU12345678"))
	assert.Equal(t, "BE0418159080", n.Normalize("BE0418159080"))
	assert.Equal(t, []string{"LU"}, n.CountryCodes())
}

func TestNilNormalizerIsIdentity(t *testing.T) {
	var n *Normalizer
	assert.Equal(t, "BE0418159080", n.Normalize("BE0418159080"))
	assert.False(t, n.IsNormalizable("BE0418159080"))
}

func TestParseDirectoryID(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		scheme, id, err := ParseDirectoryID(`"iso6523-actorid-upis::9925:BE0418159080"`)
		require.NoError(t, err)
		assert.Equal(t, "9925", scheme)
		assert.Equal(t, "BE0418159080", id)
	})

	t.Run("id keeps later colons", func(t *testing.T) {
		_, id, err := ParseDirectoryID("iso6523-actorid-upis::0088:abc:def")
		require.NoError(t, err)
		assert.Equal(t, "abc:def", id)
	})

	for _, raw := range []string{"", "0208:123", "iso6523-actorid-upis::", "iso6523-actorid-upis::0208", "iso6523-actorid-upis:::123", "other::0208:1"} {
		t.Run("invalid "+raw, func(t *testing.T) {
			_, _, err := ParseDirectoryID(raw)
			assert.Error(t, err)
		})
	}
}

func TestDirectoryID(t *testing.T) {
	assert.Equal(t, "iso6523-actorid-upis::0208:1", DirectoryID("0208", "1"))
}
