package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func paramsFor(query string) Params {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?"+query, nil)
	return Parse(c)
}

func TestParse(t *testing.T) {
	cases := []struct {
		name  string
		query string
		want  Params
	}{
		{"defaults", "", Params{Limit: DefaultLimit, Skip: 0}},
		{"explicit", "limit=5&skip=10", Params{Limit: 5, Skip: 10}},
		{"limit clamped to ceiling", "limit=5000", Params{Limit: MaxLimit, Skip: 0}},
		{"zero limit falls back", "limit=0", Params{Limit: DefaultLimit, Skip: 0}},
		{"negative skip falls back", "skip=-3", Params{Limit: DefaultLimit, Skip: 0}},
		{"garbage falls back", "limit=abc&skip=xyz", Params{Limit: DefaultLimit, Skip: 0}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, paramsFor(tc.query))
		})
	}
}

func TestBuildHasMore(t *testing.T) {
	p := Params{Limit: 10, Skip: 0}

	assert.True(t, Build(25, p, 10).HasMore)
	assert.False(t, Build(10, p, 10).HasMore)

	// Last partial page.
	assert.False(t, Build(25, Params{Limit: 10, Skip: 20}, 5).HasMore)

	// Empty result set.
	assert.False(t, Build(0, p, 0).HasMore)
}
