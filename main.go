package main

import (
	"net/http"
	"os"

	"plmgate/bizerror"
	"plmgate/client/es"
	"plmgate/client/oss"
	"plmgate/client/plm"
	"plmgate/common"
	"plmgate/domain/document"
	"plmgate/domain/employee"
	"plmgate/domain/equipment"
	"plmgate/domain/part"
	"plmgate/domain/workingplan"
	"plmgate/indices"
	"plmgate/infra/tracing"
	"plmgate/journal"
	"plmgate/persistence"
	"plmgate/session"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	logrus.Infoln("service start")

	tracingCloser, err := tracing.Bootstrap()
	if err != nil {
		logrus.Fatalf("tracing bootstrap failed %v\n", err)
	}
	defer tracingCloser.Close()

	if _, err := plm.Bootstrap(&tracing.Transport{Transport: http.DefaultTransport}); err != nil {
		logrus.Fatalf("gateway bootstrap failed %v\n", err)
	}

	// the operation journal is optional: without a database the gateway
	// simply runs unjournaled
	if os.Getenv("DATABASE_ARGS") != "" {
		dbConfig, err := persistence.ParseDatabaseConfigFromEnv()
		if err != nil {
			logrus.Fatalf("parse database config failed %v\n", err)
		}
		if dbConfig.DriverType == "mysql" {
			if err := persistence.PrepareMysqlDatabase(dbConfig.DriverArgs); err != nil {
				logrus.Fatalf("failed to prepare database %v\n", err)
			}
		}

		ds := &persistence.DataSourceManager{DatabaseConfig: dbConfig}
		if err := ds.Start(); err != nil {
			logrus.Fatalf("database connection failed %v\n", err)
		}
		defer ds.Stop()
		persistence.ActiveDataSourceManager = ds

		if err := ds.GormDB().AutoMigrate(&journal.OperationRecord{}).Error; err != nil {
			logrus.Fatalf("database migration failed %v\n", err)
		}
		journal.Bootstrap()
	}

	if os.Getenv("ELASTICSEARCH_URL") != "" {
		es.CreateClientFromEnv()
		indices.Bootstrap()
	}
	if os.Getenv("OSS_ENDPOINT") != "" {
		oss.Bootstrap()
	}

	engine := gin.Default()
	engine.Use(bizerror.ErrorHandling(), tracing.TracingIngress())
	engine.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, common.GetServiceName())
	})

	session.RegisterSessionsRestAPI(engine)

	authed := []gin.HandlerFunc{session.SimpleAuthFilter()}
	employee.RegisterEmployeesRestAPI(engine, authed...)
	equipment.RegisterEquipmentsRestAPI(engine, authed...)
	part.RegisterPartsRestAPI(engine, authed...)
	workingplan.RegisterWorkingPlansRestAPI(engine, authed...)
	document.RegisterDrawingsRestAPI(engine, authed...)
	indices.RegisterIndicesRestAPI(engine, authed...)
	journal.RegisterJournalRestAPI(engine, authed...)

	if err := engine.Run(":80"); err != nil {
		panic(err)
	}
}
