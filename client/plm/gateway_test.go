package plm_test

import (
	"context"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"plmgate/client/plm"
	"testing"
	"time"

	. "github.com/onsi/gomega"
)

type recordedRequest struct {
	Path  string
	Query string
	Body  string
}

// fakeBackend records the last request and plays back a canned response.
func fakeBackend(response *string, recorded *recordedRequest) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := ioutil.ReadAll(r.Body)
		*recorded = recordedRequest{Path: r.URL.Path, Query: r.URL.RawQuery, Body: string(body)}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(*response))
	}))
}

func testGateway(baseURL string) *plm.Gateway {
	return plm.NewGateway(&plm.Config{
		BaseURL: baseURL, AuthToken: "token-1", Operator: "sysadmin 1", Timeout: time.Second,
	}, nil)
}

func TestGatewayCreate(t *testing.T) {
	RegisterTestingT(t)

	var recorded recordedRequest
	response := `{"result":"SUCCESS","data":[{"id":"1000000001","unitName":"件","rdmVersion":1}]}`
	server := fakeBackend(&response, &recorded)
	defer server.Close()
	gateway := testGateway(server.URL)

	t.Run("create should enrich params and unwrap the first element", func(t *testing.T) {
		record, err := gateway.Create(context.Background(), "Unit", map[string]interface{}{"unitName": "件"})
		Expect(err).To(BeNil())
		Expect(recorded.Path).To(Equal("/dynamic/api/Unit/create"))
		Expect(recorded.Body).To(MatchJSON(`{"params":{"unitName":"件","creator":"sysadmin 1","modifier":"sysadmin 1"},"applicationId":null}`))
		Expect(record.ID()).To(Equal("1000000001"))
		Expect(record.StringField("unitName")).To(Equal("件"))
	})

	t.Run("create should surface a backend FAIL as RemoteOperationError", func(t *testing.T) {
		response = `{"result":"FAIL","errors":["x"]}`
		_, err := gateway.Create(context.Background(), "Unit", map[string]interface{}{"unitName": "件"})
		remoteErr, ok := err.(*plm.RemoteOperationError)
		Expect(ok).To(BeTrue())
		Expect(remoteErr.Message).To(ContainSubstring("x"))
	})
}

func TestGatewayUpdate(t *testing.T) {
	RegisterTestingT(t)

	var recorded recordedRequest
	response := `{"result":"SUCCESS","data":[{"id":"1000000001","unitName":"个","rdmVersion":2}]}`
	server := fakeBackend(&response, &recorded)
	defer server.Close()
	gateway := testGateway(server.URL)

	t.Run("update should strip server owned fields and keep id", func(t *testing.T) {
		fetched := map[string]interface{}{
			"id": "1000000001", "unitName": "个",
			"rdmDeleteFlag": 0, "className": "X",
			"createTime": float64(1600000000000), "lastUpdateTime": float64(1600000000000),
			"rdmExtensionType": "UnitExt", "tenant": "t1",
		}
		record, err := gateway.Update(context.Background(), "Unit", fetched)
		Expect(err).To(BeNil())
		Expect(recorded.Path).To(Equal("/dynamic/api/Unit/update"))
		Expect(recorded.Body).To(MatchJSON(`{"params":{"id":"1000000001","unitName":"个","creator":"sysadmin 1","modifier":"sysadmin 1"},"applicationId":null}`))
		Expect(record.StringField("unitName")).To(Equal("个"))
	})
}

func TestGatewayDelete(t *testing.T) {
	RegisterTestingT(t)

	var recorded recordedRequest
	response := `{"result":"SUCCESS"}`
	server := fakeBackend(&response, &recorded)
	defer server.Close()
	gateway := testGateway(server.URL)

	t.Run("delete needs only a SUCCESS envelope", func(t *testing.T) {
		Expect(gateway.Delete(context.Background(), "Unit", "1000000001")).To(BeNil())
		Expect(recorded.Path).To(Equal("/dynamic/api/Unit/delete"))
		Expect(recorded.Body).To(MatchJSON(`{"params":{"id":"1000000001","creator":"sysadmin 1","modifier":"sysadmin 1"},"applicationId":null}`))
	})
}

func TestGatewayGetByID(t *testing.T) {
	RegisterTestingT(t)

	var recorded recordedRequest
	response := `{"result":"SUCCESS","data":[{"id":"1000000001","unitName":"件"}]}`
	server := fakeBackend(&response, &recorded)
	defer server.Close()
	gateway := testGateway(server.URL)

	t.Run("single get results arrive wrapped in an array too", func(t *testing.T) {
		record, err := gateway.GetByID(context.Background(), "Unit", "1000000001")
		Expect(err).To(BeNil())
		Expect(recorded.Path).To(Equal("/dynamic/api/Unit/get"))
		Expect(record.ID()).To(Equal("1000000001"))
	})
}

func TestGatewayList(t *testing.T) {
	RegisterTestingT(t)

	var recorded recordedRequest
	response := `{"result":"SUCCESS","data":[{"id":"1","name":"李雷"},{"id":"2","name":"韩梅梅"}]}`
	server := fakeBackend(&response, &recorded)
	defer server.Close()
	gateway := testGateway(server.URL)

	t.Run("list computes total client-side", func(t *testing.T) {
		result, err := gateway.List(context.Background(), "Employee", map[string]interface{}{}, 1, 5)
		Expect(err).To(BeNil())
		Expect(recorded.Path).To(Equal("/dynamic/api/Employee/list"))
		Expect(recorded.Query).To(ContainSubstring("curPage=1"))
		Expect(recorded.Query).To(ContainSubstring("pageSize=5"))
		Expect(len(result.Records)).To(Equal(2))
		Expect(result.Total).To(Equal(2))
		Expect(result.PageNum).To(Equal(1))
		Expect(result.PageSize).To(Equal(5))
	})

	t.Run("nil condition is normalized to an empty condition object", func(t *testing.T) {
		_, err := gateway.List(context.Background(), "Employee", nil, 1, 5)
		Expect(err).To(BeNil())
		Expect(recorded.Body).To(MatchJSON(`{"params":{"creator":"sysadmin 1","modifier":"sysadmin 1"},"applicationId":null}`))
	})
}

func TestGatewayFind(t *testing.T) {
	RegisterTestingT(t)

	var recorded recordedRequest
	response := `{"result":"SUCCESS","data":[{"id":"1"}]}`
	server := fakeBackend(&response, &recorded)
	defer server.Close()
	gateway := testGateway(server.URL)

	t.Run("find takes paging as path segments and posts the filter", func(t *testing.T) {
		filter := &plm.Filter{Conditions: []plm.Condition{
			{ConditionName: "dept.id", Operator: plm.OperatorEqual, ConditionValues: []interface{}{"900"}},
		}}
		result, err := gateway.Find(context.Background(), "Employee", filter,
			[]plm.Sort{{Field: "number", Order: plm.OrderAsc}}, 1, 5)
		Expect(err).To(BeNil())
		Expect(recorded.Path).To(Equal("/dynamic/api/Employee/find/5/1"))
		Expect(recorded.Body).To(MatchJSON(`{"params":{
			"filter":{"joiner":"and","conditions":[{"conditionName":"dept.id","operator":"=","conditionValues":["900"]}]},
			"sorts":[{"field":"number","order":"asc"}],
			"isNeedTotal":true,
			"creator":"sysadmin 1","modifier":"sysadmin 1"},"applicationId":null}`))
		Expect(result.Total).To(Equal(1))
	})

	t.Run("nil filter defaults to an and-joined empty condition set", func(t *testing.T) {
		_, err := gateway.Find(context.Background(), "Employee", nil, nil, 1, 5)
		Expect(err).To(BeNil())
		Expect(recorded.Body).To(MatchJSON(`{"params":{
			"filter":{"joiner":"and","conditions":[]},
			"sorts":[],
			"isNeedTotal":true,
			"creator":"sysadmin 1","modifier":"sysadmin 1"},"applicationId":null}`))
	})
}

func TestGatewayTransportFailures(t *testing.T) {
	RegisterTestingT(t)

	t.Run("non-2xx responses raise TransportError before envelope parsing", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			w.Write([]byte("upstream gone"))
		}))
		defer server.Close()

		_, err := testGateway(server.URL).GetByID(context.Background(), "Unit", "1")
		transportErr, ok := err.(*plm.TransportError)
		Expect(ok).To(BeTrue())
		Expect(transportErr.StatusCode).To(Equal(http.StatusBadGateway))
		Expect(transportErr.RespBody).To(ContainSubstring("upstream gone"))
	})

	t.Run("connection failures raise TransportError", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		server.Close()

		_, err := testGateway(server.URL).GetByID(context.Background(), "Unit", "1")
		transportErr, ok := err.(*plm.TransportError)
		Expect(ok).To(BeTrue())
		Expect(transportErr.Unwrap()).ToNot(BeNil())
	})
}

func TestGatewayAuthHeader(t *testing.T) {
	RegisterTestingT(t)

	t.Run("every call carries the static auth token", func(t *testing.T) {
		var token string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token = r.Header.Get("X-Auth-Token")
			w.Write([]byte(`{"result":"SUCCESS","data":[{"id":"1"}]}`))
		}))
		defer server.Close()

		_, err := testGateway(server.URL).GetByID(context.Background(), "Unit", "1")
		Expect(err).To(BeNil())
		Expect(token).To(Equal("token-1"))
	})
}

func TestGatewayJournalHook(t *testing.T) {
	RegisterTestingT(t)

	savedJournalFunc := plm.JournalFunc
	defer func() { plm.JournalFunc = savedJournalFunc }()

	t.Run("journal hook observes outcome and operation", func(t *testing.T) {
		var journaled []plm.OpRecord
		plm.JournalFunc = func(record plm.OpRecord) { journaled = append(journaled, record) }

		response := `{"result":"SUCCESS","data":[{"id":"1"}]}`
		var recorded recordedRequest
		server := fakeBackend(&response, &recorded)
		defer server.Close()
		gateway := testGateway(server.URL)

		_, err := gateway.GetByID(context.Background(), "Unit", "1")
		Expect(err).To(BeNil())

		response = `{"result":"FAIL","errors":["nope"]}`
		_, err = gateway.GetByID(context.Background(), "Unit", "1")
		Expect(err).ToNot(BeNil())

		Expect(len(journaled)).To(Equal(2))
		Expect(journaled[0].Entity).To(Equal("Unit"))
		Expect(journaled[0].Operation).To(Equal("get"))
		Expect(journaled[0].Outcome).To(Equal(plm.OutcomeSuccess))
		Expect(journaled[1].Outcome).To(Equal(plm.OutcomeRemoteFail))
		Expect(journaled[1].Message).To(ContainSubstring("nope"))
	})
}
