package journal

import (
	"plmgate/client/plm"
	"plmgate/idgen"
	"plmgate/persistence"

	"github.com/fundwit/go-commons/types"
	"github.com/sirupsen/logrus"
	"github.com/sony/sonyflake"
)

// OperationRecord is one row of the append-only operation journal: the
// write-only logging sink behind the gateway. The adapter itself stays
// stateless; the journal only observes it.
type OperationRecord struct {
	ID types.ID `json:"id"`

	Entity        string `json:"entity" gorm:"index:idx_entity"`
	Operation     string `json:"operation"`
	Outcome       string `json:"outcome"`
	Message       string `json:"message" gorm:"type:TEXT"`
	ElapsedMillis int64  `json:"elapsedMillis"`

	CreateTime types.Timestamp `json:"createTime" sql:"type:DATETIME(6) NOT NULL"`
}

func (r *OperationRecord) TableName() string {
	return "operation_journal"
}

var (
	journalIdWorker = sonyflake.NewSonyflake(sonyflake.Settings{})

	RecordOperationFunc = RecordOperation
	QueryOperationsFunc = QueryOperations
)

// Bootstrap points the gateway's journal hook at the database. Journal
// failures are logged and never fail the business operation.
func Bootstrap() {
	plm.JournalFunc = func(op plm.OpRecord) {
		if err := RecordOperationFunc(op); err != nil {
			logrus.Warnf("failed to journal %s/%s: %v", op.Entity, op.Operation, err)
		}
	}
}

func RecordOperation(op plm.OpRecord) error {
	record := OperationRecord{
		ID:            idgen.NextID(journalIdWorker),
		Entity:        op.Entity,
		Operation:     op.Operation,
		Outcome:       op.Outcome,
		Message:       op.Message,
		ElapsedMillis: op.ElapsedMillis,
		CreateTime:    types.CurrentTimestamp(),
	}
	return persistence.ActiveDataSourceManager.GormDB().Create(&record).Error
}

type OperationQuery struct {
	Entity   string `json:"entity" form:"entity"`
	PageSize int    `json:"pageSize" form:"pageSize"`
}

func QueryOperations(q OperationQuery) ([]OperationRecord, error) {
	if q.PageSize <= 0 || q.PageSize > 500 {
		q.PageSize = 100
	}

	records := []OperationRecord{}
	db := persistence.ActiveDataSourceManager.GormDB().Order("ID DESC").Limit(q.PageSize)
	if q.Entity != "" {
		db = db.Where("entity = ?", q.Entity)
	}
	if err := db.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}
