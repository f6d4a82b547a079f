package sfc

import (
	"net/url"
	"testing"

	"github.com/robbyt/go-sfctemplate/internal/helpers"
	"github.com/stretchr/testify/require"
)

func TestScopeID(t *testing.T) {
	t.Parallel()

	t.Run("development ignores source", func(t *testing.T) {
		a := ScopeID("src/App.vue", "<template>a</template>", false)
		b := ScopeID("src/App.vue", "<template>b</template>", false)
		require.Equal(t, a, b)
		require.Len(t, a, 8)
		require.Equal(t, helpers.SHA256("src/App.vue")[:8], a)
	})

	t.Run("production mixes in source", func(t *testing.T) {
		a := ScopeID("src/App.vue", "<template>a</template>", true)
		b := ScopeID("src/App.vue", "<template>b</template>", true)
		require.NotEqual(t, a, b)
	})

	t.Run("windows separators are normalized", func(t *testing.T) {
		require.Equal(t,
			ScopeID("src/App.vue", "", false),
			ScopeID(`src\App.vue`, "", false),
		)
	})
}

func TestScopeAttribute(t *testing.T) {
	t.Parallel()
	require.Equal(t, "data-v-abc123", ScopeAttribute("abc123"))
}

func TestTemplateRequest(t *testing.T) {
	t.Parallel()

	req := TemplateRequest("/src/App.vue", "abc123", nil)
	require.Equal(t, "/src/App.vue?vue&id=abc123&type=template", req)

	extra := url.Values{"ts": {"true"}, "id": {"ignored"}}
	req = TemplateRequest("/src/App.vue", "abc123", extra)
	u, err := url.Parse(req)
	require.NoError(t, err)
	q, err := url.ParseQuery(u.RawQuery)
	require.NoError(t, err)
	require.Equal(t, "abc123", q.Get("id"))
	require.Equal(t, "true", q.Get("ts"))
	require.Equal(t, []string{"ignored"}, extra["id"], "caller values are not mutated")
}
