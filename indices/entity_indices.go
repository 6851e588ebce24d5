package indices

import (
	"context"
	"fmt"
	"strings"

	"plmgate/client/es"
	"plmgate/client/plm"

	"github.com/sirupsen/logrus"
)

// SearchableEntities lists the remote entity names whose records are
// mirrored into elasticsearch. Entities registered here take part in the
// full re-sync and in search.
var SearchableEntities = []string{"Employee", "Equipment", "Part", "WorkingPlan", "Drawing"}

var (
	IndexEntitiesFunc = IndexEntities
	RemoveEntityFunc  = RemoveEntity
)

// Bootstrap hooks the mirror into the gateway: every successful write of
// a searchable entity is reflected in its index. Mirror failures are
// logged and never fail the business operation.
func Bootstrap() {
	plm.MirrorFunc = func(entity, operation string, records []plm.Entity) {
		if !searchable(entity) {
			return
		}
		if err := IndexEntitiesFunc(entity, records); err != nil {
			logrus.Warnf("failed to mirror %s/%s: %v", entity, operation, err)
		}
	}
	plm.MirrorRemoveFunc = func(entity, id string) {
		if !searchable(entity) {
			return
		}
		if err := RemoveEntityFunc(entity, id); err != nil {
			logrus.Warnf("failed to remove %s %s from mirror: %v", entity, id, err)
		}
	}
}

func searchable(entity string) bool {
	for _, name := range SearchableEntities {
		if name == entity {
			return true
		}
	}
	return false
}

func EntityIndexName(entity string) string {
	return "entity-" + strings.ToLower(entity)
}

type BatchActionError map[string]error

func (e BatchActionError) Error() string {
	return fmt.Sprintf("%v", map[string]error(e))
}

// IndexEntities mirrors the given records into the entity's index. The
// document is the normalized record as returned by the gateway, keyed by
// its remote id.
func IndexEntities(entity string, records []plm.Entity) error {
	errs := BatchActionError{}

	for _, record := range records {
		id := record.ID()
		if id == "" {
			logrus.Warnf("skip indexing a %s record without id\n", entity)
			continue
		}

		if err := es.IndexFunc(context.Background(), EntityIndexName(entity), id, record); err != nil {
			errs[id] = err
			logrus.Warnf("index %s %s %s\n", entity, id, err)
		} else {
			logrus.Infof("index %s %s successfully\n", entity, id)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func RemoveEntity(entity, id string) error {
	return es.DeleteDocumentByIdFunc(context.Background(), EntityIndexName(entity), id)
}
