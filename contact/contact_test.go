package contact

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeContactFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "contact_info.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestContactInfo(t *testing.T) {
	path := writeContactFile(t, `{
		"phone": ["01 23 45 67 89"],
		"email": ["contact@it-work.fr"],
		"address": ["1 rue de Paris"],
		"social_media": {"linkedin": "https://linkedin.com/company/it-work"}
	}`)
	r, err := NewResolver(path)
	require.NoError(t, err)

	info := r.ContactInfo()
	assert.Equal(t, []string{"01 23 45 67 89"}, info.Phone)
	assert.Equal(t, []string{"contact@it-work.fr"}, info.Email)
	assert.Equal(t, []string{"1 rue de Paris"}, info.Address)
	assert.Equal(t, "https://linkedin.com/company/it-work", info.SocialMedia["linkedin"])
}

func TestContactInfoMissingFile(t *testing.T) {
	r, err := NewResolver(filepath.Join(t.TempDir(), "absent.json"))
	require.NoError(t, err)

	info := r.ContactInfo()
	assert.True(t, info.IsEmpty())
	assert.NotNil(t, info.Phone)
	assert.NotNil(t, info.Email)
	assert.NotNil(t, info.Address)
	assert.NotNil(t, info.SocialMedia)

	data, err := json.Marshal(info)
	require.NoError(t, err)
	var keys map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &keys))
	for _, key := range []string{"phone", "email", "address", "social_media"} {
		assert.Contains(t, keys, key)
	}
}

func TestContactInfoInvalidFile(t *testing.T) {
	r, err := NewResolver(writeContactFile(t, `{"phone": [`))
	require.NoError(t, err)
	assert.True(t, r.ContactInfo().IsEmpty())
}

func TestContactInfoPartialFile(t *testing.T) {
	r, err := NewResolver(writeContactFile(t, `{"email": ["a@b.fr"]}`))
	require.NoError(t, err)

	info := r.ContactInfo()
	assert.Equal(t, []string{"a@b.fr"}, info.Email)
	assert.NotNil(t, info.Phone)
	assert.Empty(t, info.Phone)
}

func TestContactInfoIsCached(t *testing.T) {
	path := writeContactFile(t, `{"phone": ["1"]}`)
	r, err := NewResolver(path)
	require.NoError(t, err)

	first := r.ContactInfo()
	first.Phone[0] = "mutated"

	require.NoError(t, os.WriteFile(path, []byte(`{"phone": ["2"]}`), 0o644))
	assert.Equal(t, []string{"1"}, r.ContactInfo().Phone, "cached and not shared")

	r.Reload()
	assert.Equal(t, []string{"2"}, r.ContactInfo().Phone)
}

func TestContactInfoConcurrent(t *testing.T) {
	r, err := NewResolver(writeContactFile(t, `{"phone": ["1"]}`))
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, []string{"1"}, r.ContactInfo().Phone)
		}()
	}
	wg.Wait()
}

func TestNewResolverDefaultPath(t *testing.T) {
	r, err := NewResolver("")
	require.NoError(t, err)
	assert.Equal(t, DefaultFile, r.Path())
}
