package query

import (
	"sort"
	"testing"

	bq "github.com/blevesearch/bleve/v2/search/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cerrors "github.com/Aman-CERP/cjkfts/internal/errors"
	"github.com/Aman-CERP/cjkfts/internal/schema"
)

// leafFields lists the field of every fieldable leaf in q, sorted.
func leafFields(q bq.Query) []string {
	var out []string
	var walk func(bq.Query)
	walk = func(q bq.Query) {
		switch q := q.(type) {
		case *bq.BooleanQuery:
			for _, c := range []bq.Query{q.Must, q.Should, q.MustNot} {
				if c != nil {
					walk(c)
				}
			}
		case *bq.ConjunctionQuery:
			for _, c := range q.Conjuncts {
				walk(c)
			}
		case *bq.DisjunctionQuery:
			for _, c := range q.Disjuncts {
				walk(c)
			}
		case bq.FieldableQuery:
			out = append(out, q.Field())
		}
	}
	walk(q)
	sort.Strings(out)
	return out
}

func expandString(t *testing.T, s string) bq.Query {
	t.Helper()
	q, err := Parse(s)
	require.NoError(t, err)
	return Expand(q, schema.SearchFields())
}

func TestExpand(t *testing.T) {
	all := []string{"body", "body_ngram", "title", "title_ngram"}
	twice := []string{"body", "body", "body_ngram", "body_ngram", "title", "title", "title_ngram", "title_ngram"}

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"bare term", "인천", all},
		{"phrase", `"국제 공항"`, all},
		{"fuzzy", "공항~1", all},
		{"wildcard", "공*", all},
		{"must and must not", "+인천 -김포", twice},
		{"fielded kept", "title:공항", []string{"title"}},
		{"metadata kept", "metadata.iata:ICN", []string{"metadata.iata"}},
		{"mixed", "공항 +metadata.country:일본", append([]string{"metadata.country"}, all...)},
		{"boost", "인천^3", all},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := leafFields(expandString(t, tt.query))
			want := append([]string(nil), tt.want...)
			sort.Strings(want)
			assert.Equal(t, want, got)
		})
	}
}

// matchLeaves collects every match query in q.
func matchLeaves(q bq.Query) []*bq.MatchQuery {
	var out []*bq.MatchQuery
	var walk func(bq.Query)
	walk = func(q bq.Query) {
		switch q := q.(type) {
		case *bq.BooleanQuery:
			for _, c := range []bq.Query{q.Must, q.Should, q.MustNot} {
				if c != nil {
					walk(c)
				}
			}
		case *bq.DisjunctionQuery:
			for _, c := range q.Disjuncts {
				walk(c)
			}
		case *bq.ConjunctionQuery:
			for _, c := range q.Conjuncts {
				walk(c)
			}
		case *bq.MatchQuery:
			out = append(out, q)
		}
	}
	walk(q)
	return out
}

func TestExpand_CopiesClauseSettings(t *testing.T) {
	t.Run("fuzziness", func(t *testing.T) {
		// Given: a fuzzy clause
		leaves := matchLeaves(expandString(t, "공항~2"))

		// Then: every per-field copy keeps the fuzziness
		require.Len(t, leaves, 4)
		for _, m := range leaves {
			assert.Equal(t, 2, m.Fuzziness)
			assert.Equal(t, "공항", m.Match)
		}
	})

	t.Run("boost", func(t *testing.T) {
		// Given: a boosted clause
		leaves := matchLeaves(expandString(t, "인천^4"))

		// Then: every per-field copy keeps the boost
		require.Len(t, leaves, 4)
		for _, m := range leaves {
			assert.Equal(t, 4.0, m.Boost())
		}
	})
}

func TestExpand_NoFieldsLeavesQuery(t *testing.T) {
	mq := bq.NewMatchQuery("x")

	assert.Same(t, mq, Expand(mq, nil))
}

func TestExpand_NonTextClausesUntouched(t *testing.T) {
	all := bq.NewMatchAllQuery()

	assert.Same(t, all, Expand(all, schema.SearchFields()))
}

func TestParse_SyntaxError(t *testing.T) {
	_, err := Parse("title:+공항")
	require.Error(t, err)

	_, err = Parse(`"인천 공항`)
	require.Error(t, err)
	assert.True(t, cerrors.HasCode(err, cerrors.ErrCodeInvalidQuery))
}
