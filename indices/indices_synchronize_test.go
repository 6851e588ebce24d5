package indices_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"plmgate/bizerror"
	"plmgate/client/es"
	"plmgate/client/plm"
	"plmgate/indices"
	"plmgate/session"

	. "github.com/onsi/gomega"
)

func TestScheduleNewSyncRun(t *testing.T) {
	RegisterTestingT(t)

	t.Run("only admin can schedule sync run", func(t *testing.T) {
		sec := session.Context{Perms: session.Permissions{}}
		success, err := indices.ScheduleNewSyncRun(&sec)
		Expect(err).To(Equal(bizerror.ErrForbidden))
		Expect(success).To(BeFalse())

		success, err = indices.ScheduleNewSyncRun(nil)
		Expect(err).To(Equal(bizerror.ErrForbidden))
		Expect(success).To(BeFalse())
	})

	t.Run("concurrent sync runs should be rejected", func(t *testing.T) {
		savedFunc := indices.IndicesFullSyncFunc
		defer func() { indices.IndicesFullSyncFunc = savedFunc }()
		indices.IndicesFullSyncFunc = func() error {
			time.Sleep(100 * time.Millisecond)
			return nil
		}

		sec := session.Context{Perms: session.Permissions{session.AdminPermission}}
		success, err := indices.ScheduleNewSyncRun(&sec)
		Expect(err).To(BeNil())
		Expect(success).To(BeTrue())

		success, err = indices.ScheduleNewSyncRun(&sec)
		Expect(err).To(BeNil())
		Expect(success).To(BeFalse())

		time.Sleep(200 * time.Millisecond)

		success, err = indices.ScheduleNewSyncRun(&sec)
		Expect(err).To(BeNil())
		Expect(success).To(BeTrue())
	})
}

func TestIndicesFullSync(t *testing.T) {
	RegisterTestingT(t)

	t.Run("should walk every searchable entity through the gateway", func(t *testing.T) {
		savedEntities := indices.SearchableEntities
		savedIndexFunc := indices.IndexEntitiesFunc
		savedGateway := plm.ActiveGateway
		defer func() {
			indices.SearchableEntities = savedEntities
			indices.IndexEntitiesFunc = savedIndexFunc
			plm.ActiveGateway = savedGateway
		}()

		pagesServed := 0
		backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			pagesServed++
			if pagesServed == 1 {
				fmt.Fprintln(w, `{"result": "SUCCESS", "data": [{"id": "e-1", "name": "zhang"}, {"id": "e-2", "name": "li"}]}`)
				return
			}
			fmt.Fprintln(w, `{"result": "SUCCESS", "data": []}`)
		}))
		defer backend.Close()

		plm.ActiveGateway = plm.NewGateway(&plm.Config{
			BaseURL: backend.URL, Operator: "sysadmin 1", Timeout: time.Second,
		}, nil)
		indices.SearchableEntities = []string{"Employee"}

		indexed := map[string][]plm.Entity{}
		indices.IndexEntitiesFunc = func(entity string, records []plm.Entity) error {
			indexed[entity] = append(indexed[entity], records...)
			return nil
		}

		Expect(indices.IndicesFullSync()).To(BeNil())
		Expect(pagesServed).To(Equal(2))
		Expect(len(indexed["Employee"])).To(Equal(2))
		Expect(indexed["Employee"][0].ID()).To(Equal("e-1"))
		Expect(indexed["Employee"][1].ID()).To(Equal("e-2"))
	})
}

func TestIndexEntities(t *testing.T) {
	RegisterTestingT(t)

	t.Run("should index each record by id and collect failures", func(t *testing.T) {
		savedIndexFunc := es.IndexFunc
		defer func() { es.IndexFunc = savedIndexFunc }()

		indexedIds := []string{}
		es.IndexFunc = func(ctx context.Context, index, id string, doc interface{}) error {
			Expect(index).To(Equal("entity-part"))
			indexedIds = append(indexedIds, id)
			if id == "bad" {
				return errors.New("boom")
			}
			return nil
		}

		err := indices.IndexEntities("Part", []plm.Entity{
			{"id": "p-1"}, {"name": "no id"}, {"id": "bad"},
		})
		Expect(indexedIds).To(Equal([]string{"p-1", "bad"}))

		batchErr, ok := err.(indices.BatchActionError)
		Expect(ok).To(BeTrue())
		Expect(len(batchErr)).To(Equal(1))
		Expect(batchErr["bad"]).ToNot(BeNil())
	})

	t.Run("should return nil when all records are indexed", func(t *testing.T) {
		savedIndexFunc := es.IndexFunc
		defer func() { es.IndexFunc = savedIndexFunc }()
		es.IndexFunc = func(ctx context.Context, index, id string, doc interface{}) error {
			return nil
		}

		Expect(indices.IndexEntities("Part", []plm.Entity{{"id": "p-1"}})).To(BeNil())
	})
}

func TestMirrorBootstrap(t *testing.T) {
	RegisterTestingT(t)

	t.Run("successful writes of searchable entities flow into the mirror", func(t *testing.T) {
		savedMirrorFunc := plm.MirrorFunc
		savedMirrorRemoveFunc := plm.MirrorRemoveFunc
		savedIndexFunc := indices.IndexEntitiesFunc
		savedRemoveFunc := indices.RemoveEntityFunc
		defer func() {
			plm.MirrorFunc = savedMirrorFunc
			plm.MirrorRemoveFunc = savedMirrorRemoveFunc
			indices.IndexEntitiesFunc = savedIndexFunc
			indices.RemoveEntityFunc = savedRemoveFunc
		}()

		indexed := map[string]int{}
		removed := []string{}
		indices.IndexEntitiesFunc = func(entity string, records []plm.Entity) error {
			indexed[entity] += len(records)
			return nil
		}
		indices.RemoveEntityFunc = func(entity, id string) error {
			removed = append(removed, entity+"/"+id)
			return nil
		}

		indices.Bootstrap()
		plm.MirrorFunc("Employee", "create", []plm.Entity{{"id": "e-1"}})
		plm.MirrorFunc("Unit", "create", []plm.Entity{{"id": "u-1"}})
		plm.MirrorRemoveFunc("Employee", "e-1")
		plm.MirrorRemoveFunc("Unit", "u-1")

		Expect(indexed).To(Equal(map[string]int{"Employee": 1}))
		Expect(removed).To(Equal([]string{"Employee/e-1"}))
	})
}

func TestRemoveEntity(t *testing.T) {
	RegisterTestingT(t)

	t.Run("should delete the mirror document", func(t *testing.T) {
		savedDeleteFunc := es.DeleteDocumentByIdFunc
		defer func() { es.DeleteDocumentByIdFunc = savedDeleteFunc }()

		var deletedIndex, deletedId string
		es.DeleteDocumentByIdFunc = func(ctx context.Context, index, id string) error {
			deletedIndex, deletedId = index, id
			return nil
		}

		Expect(indices.RemoveEntity("Equipment", "eq-9")).To(BeNil())
		Expect(deletedIndex).To(Equal("entity-equipment"))
		Expect(deletedId).To(Equal("eq-9"))
	})
}
