package indices

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"plmgate/client/es"
	"plmgate/client/plm"
)

var (
	SearchEntitiesFunc = SearchEntities
)

type EntitySearchQuery struct {
	Entity  string `json:"entity" form:"entity" binding:"required"`
	Keyword string `json:"keyword" form:"keyword"`
	Size    int    `json:"size" form:"size"`
}

// SearchEntities runs a keyword search over one entity's mirror index and
// returns the matched records.
func SearchEntities(q EntitySearchQuery) ([]plm.Entity, error) {
	if q.Size <= 0 || q.Size > 1000 {
		q.Size = 50
	}

	var root es.H
	if q.Keyword == "" {
		root = es.H{"match_all": es.H{}}
	} else {
		root = es.H{"multi_match": es.H{"query": q.Keyword, "fields": []string{"*"}, "lenient": true}}
	}

	r, err := es.SearchFunc(context.Background(), EntityIndexName(q.Entity), es.H{"size": q.Size, "query": root})
	if err != nil {
		return nil, err
	}

	records := make([]plm.Entity, 0, len(r.Hits.Hits))
	for _, hit := range r.Hits.Hits {
		record := plm.Entity{}
		if err := json.NewDecoder(strings.NewReader(string(hit.Source))).Decode(&record); err != nil {
			return nil, fmt.Errorf(string(hit.Source))
		}
		records = append(records, record)
	}
	return records, nil
}
