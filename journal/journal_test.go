package journal_test

import (
	"testing"
	"time"

	"plmgate/client/plm"
	"plmgate/journal"
	"plmgate/persistence"
	"plmgate/testinfra"

	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/assert"
)

func setup(t *testing.T, testDatabase **testinfra.TestDatabase) {
	db := testinfra.StartMysqlTestDatabase("plmgate")
	*testDatabase = db
	assert.Nil(t, db.DS.GormDB().AutoMigrate(&journal.OperationRecord{}).Error)
	persistence.ActiveDataSourceManager = db.DS
}

func teardown(t *testing.T, testDatabase *testinfra.TestDatabase) {
	if testDatabase != nil {
		testinfra.StopMysqlTestDatabase(testDatabase)
	}
}

func TestRecordOperation(t *testing.T) {
	RegisterTestingT(t)
	var testDatabase *testinfra.TestDatabase

	t.Run("should persist gateway op records", func(t *testing.T) {
		defer teardown(t, testDatabase)
		setup(t, &testDatabase)

		err := journal.RecordOperation(plm.OpRecord{
			Entity: "Part", Operation: "checkout",
			Outcome: plm.OutcomeRemoteFail, Message: "already has a working copy", ElapsedMillis: 25,
		})
		Expect(err).To(BeNil())

		records := []journal.OperationRecord{}
		Expect(persistence.ActiveDataSourceManager.GormDB().Find(&records).Error).To(BeNil())
		Expect(len(records)).To(Equal(1))
		Expect(records[0].ID > 0).To(BeTrue())
		Expect(records[0].Entity).To(Equal("Part"))
		Expect(records[0].Operation).To(Equal("checkout"))
		Expect(records[0].Outcome).To(Equal(plm.OutcomeRemoteFail))
		Expect(records[0].Message).To(Equal("already has a working copy"))
		Expect(records[0].ElapsedMillis).To(Equal(int64(25)))
		Expect(time.Since(records[0].CreateTime.Time()) < time.Second).To(BeTrue())
	})
}

func TestQueryOperations(t *testing.T) {
	RegisterTestingT(t)
	var testDatabase *testinfra.TestDatabase

	t.Run("should filter by entity and return newest first", func(t *testing.T) {
		defer teardown(t, testDatabase)
		setup(t, &testDatabase)

		Expect(journal.RecordOperation(plm.OpRecord{Entity: "Part", Operation: "create", Outcome: plm.OutcomeSuccess})).To(BeNil())
		Expect(journal.RecordOperation(plm.OpRecord{Entity: "Employee", Operation: "list", Outcome: plm.OutcomeSuccess})).To(BeNil())
		Expect(journal.RecordOperation(plm.OpRecord{Entity: "Part", Operation: "checkin", Outcome: plm.OutcomeSuccess})).To(BeNil())

		records, err := journal.QueryOperations(journal.OperationQuery{Entity: "Part"})
		Expect(err).To(BeNil())
		Expect(len(records)).To(Equal(2))
		Expect(records[0].Operation).To(Equal("checkin"))
		Expect(records[1].Operation).To(Equal("create"))

		records, err = journal.QueryOperations(journal.OperationQuery{})
		Expect(err).To(BeNil())
		Expect(len(records)).To(Equal(3))
	})

	t.Run("bootstrap should journal through the gateway hook without failing the call", func(t *testing.T) {
		defer teardown(t, testDatabase)
		setup(t, &testDatabase)

		savedJournalFunc := plm.JournalFunc
		defer func() { plm.JournalFunc = savedJournalFunc }()

		journal.Bootstrap()
		plm.JournalFunc(plm.OpRecord{Entity: "Unit", Operation: "create", Outcome: plm.OutcomeSuccess})

		records, err := journal.QueryOperations(journal.OperationQuery{Entity: "Unit"})
		Expect(err).To(BeNil())
		Expect(len(records)).To(Equal(1))
	})
}
