package databases

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoPaginate struct {
	limit int64
	page  int64
}

// newMongoPaginate builds paginated find options; page is 1-based
func newMongoPaginate(limit, page int) *mongoPaginate {
	if limit <= 0 {
		limit = 10
	}
	if page <= 0 {
		page = 1
	}
	return &mongoPaginate{
		limit: int64(limit),
		page:  int64(page),
	}
}

func (mp *mongoPaginate) getPaginatedOpts() *options.FindOptions {
	l := mp.limit
	skip := mp.page*mp.limit - mp.limit
	// newest first so listing feeds and views are deterministic
	fOpt := options.FindOptions{Limit: &l, Skip: &skip, Sort: bson.D{{Key: "_id", Value: -1}}}

	return &fOpt
}
