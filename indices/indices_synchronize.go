package indices

import (
	"context"
	"fmt"
	"sync"

	"plmgate/bizerror"
	"plmgate/client/plm"
	"plmgate/session"

	"github.com/sirupsen/logrus"
)

var (
	lock    sync.Mutex
	running bool

	IndicesFullSyncFunc    = IndicesFullSync
	ScheduleNewSyncRunFunc = ScheduleNewSyncRun
)

// ScheduleNewSyncRun starts a full re-sync in the background. At most one
// run is active at a time; a second request while running is a no-op.
func ScheduleNewSyncRun(sec *session.Context) (bool, error) {
	if sec == nil || !sec.Perms.HasRole(session.AdminPermission) {
		return false, bizerror.ErrForbidden
	}

	lock.Lock()
	if running {
		lock.Unlock()
		return false, nil
	}
	running = true
	lock.Unlock()

	waitRunning := sync.WaitGroup{}
	waitRunning.Add(1)
	go func() {
		waitRunning.Done()
		defer func() {
			lock.Lock()
			running = false
			lock.Unlock()
		}()
		IndicesFullSyncFunc()
	}()
	waitRunning.Wait()
	return true, nil
}

var (
	SyncBatchSize = 500
)

// IndicesFullSync walks every searchable entity page by page through the
// gateway and mirrors the records. A failing page is logged and skipped so
// one bad record cannot stall the whole run.
func IndicesFullSync() (err error) {
	defer func() {
		if ret := recover(); ret != nil {
			e, ok := ret.(error)
			if ok {
				err = e
			} else {
				err = fmt.Errorf("error on indices full sync: %v", ret)
			}
		}
	}()

	for _, entity := range SearchableEntities {
		syncEntity(entity)
	}
	return nil
}

func syncEntity(entity string) {
	page := 1
	for {
		result, err := plm.ActiveGateway.List(context.Background(), entity, nil, page, SyncBatchSize)
		if err != nil {
			logrus.Warnf("indices fully sync: error on retrieve %s(page = %d, pageSize = %d): %v", entity, page, SyncBatchSize, err)
			return
		}

		if len(result.Records) == 0 {
			logrus.Infof("indices fully sync: there are no more %s to index", entity)
			return
		}

		if err := IndexEntitiesFunc(entity, result.Records); err != nil {
			logrus.Warnf("indices fully sync: error on index %s(page = %d, pageSize = %d): %v", entity, page, SyncBatchSize, err)
		}
		page++
	}
}
