package query

import (
	bq "github.com/blevesearch/bleve/v2/search/query"
)

// Expand rewrites every clause of q that names no field into a disjunction of
// the same clause over each of fields. Clauses with an explicit field
// ("title:공항", "metadata.iata:ICN") are left alone. Compound queries are
// rewritten in place.
func Expand(q bq.Query, fields []string) bq.Query {
	switch q := q.(type) {
	case *bq.BooleanQuery:
		if q.Must != nil {
			q.Must = Expand(q.Must, fields)
		}
		if q.Should != nil {
			q.Should = Expand(q.Should, fields)
		}
		if q.MustNot != nil {
			q.MustNot = Expand(q.MustNot, fields)
		}
		return q
	case *bq.ConjunctionQuery:
		for i, c := range q.Conjuncts {
			q.Conjuncts[i] = Expand(c, fields)
		}
		return q
	case *bq.DisjunctionQuery:
		for i, c := range q.Disjuncts {
			q.Disjuncts[i] = Expand(c, fields)
		}
		return q
	case *bq.MatchQuery:
		return fanOut(q, fields)
	case *bq.MatchPhraseQuery:
		return fanOut(q, fields)
	case *bq.FuzzyQuery:
		return fanOut(q, fields)
	case *bq.PrefixQuery:
		return fanOut(q, fields)
	case *bq.WildcardQuery:
		return fanOut(q, fields)
	case *bq.RegexpQuery:
		return fanOut(q, fields)
	case *bq.TermQuery:
		return fanOut(q, fields)
	default:
		// Numeric and date ranges, match-all and friends have no text field
		// to fan out to.
		return q
	}
}

// fanOut copies q once per field.
func fanOut[T any, PT interface {
	*T
	bq.FieldableQuery
}](q PT, fields []string) bq.Query {
	if q.Field() != "" || len(fields) == 0 {
		return q
	}
	clauses := make([]bq.Query, 0, len(fields))
	for _, f := range fields {
		c := PT(new(T))
		*c = *q
		c.SetField(f)
		clauses = append(clauses, c)
	}
	return bq.NewDisjunctionQuery(clauses)
}
