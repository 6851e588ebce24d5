package plm

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// Gateway is the generic adapter over the backend's dynamic entity API.
// It holds no mutable state across calls; a single instance is shared by
// all caller goroutines.
type Gateway struct {
	config  *Config
	client  *http.Client
	limiter *rate.Limiter
}

var ActiveGateway *Gateway

func NewGateway(config *Config, transport http.RoundTripper) *Gateway {
	client := &http.Client{Timeout: config.Timeout}
	if transport != nil {
		client.Transport = transport
	}
	var limiter *rate.Limiter
	if config.RateLimit > 0 {
		limiter = rate.NewLimiter(config.RateLimit, 1)
	}
	return &Gateway{config: config, client: client, limiter: limiter}
}

// Bootstrap PLM_SERVICE_URL ...
func Bootstrap(transport http.RoundTripper) (*Gateway, error) {
	config, err := ParseConfigFromEnv()
	if err != nil {
		return nil, err
	}
	ActiveGateway = NewGateway(config, transport)
	return ActiveGateway, nil
}

// JournalFunc is invoked synchronously after every backend call. The
// journal package replaces it on bootstrap; the default discards records.
var JournalFunc = func(record OpRecord) {}

// MirrorFunc and MirrorRemoveFunc observe successful writes so a search
// mirror can follow the backend. Defaults discard.
var (
	MirrorFunc       = func(entity, operation string, records []Entity) {}
	MirrorRemoveFunc = func(entity, id string) {}
)

type OpRecord struct {
	Entity        string
	Operation     string
	Outcome       string
	Message       string
	ElapsedMillis int64
}

const (
	OutcomeSuccess        = "SUCCESS"
	OutcomeTransportError = "TRANSPORT_ERROR"
	OutcomeRemoteFail     = "REMOTE_FAIL"
	OutcomeDecodeError    = "DECODE_ERROR"
)

func (g *Gateway) call(ctx context.Context, entity, operation string, query url.Values,
	reqBody *WireRequest, shape PayloadShape) ([]Entity, error) {

	begin := time.Now()
	records, err := g.invoke(ctx, entity, operation, query, reqBody, shape)

	record := OpRecord{Entity: entity, Operation: operation,
		ElapsedMillis: time.Since(begin).Milliseconds(), Outcome: OutcomeSuccess}
	if err != nil {
		record.Outcome = outcomeOf(err)
		record.Message = err.Error()
		if record.Outcome == OutcomeDecodeError {
			// protocol drift between adapter and backend, never swallowed
			logrus.Errorf("decode failure on %s/%s: %v", entity, operation, err)
		}
	}
	JournalFunc(record)

	if err == nil {
		switch operation {
		case "create", "update", "checkout", "checkin":
			MirrorFunc(entity, operation, records)
		}
	}

	return records, err
}

func outcomeOf(err error) string {
	switch err.(type) {
	case *TransportError:
		return OutcomeTransportError
	case *RemoteOperationError:
		return OutcomeRemoteFail
	case *DecodeError:
		return OutcomeDecodeError
	}
	return "ERROR"
}

// Create POSTs an enriched payload to {entity}/create. The backend wraps
// the created record in a one-element array.
func (g *Gateway) Create(ctx context.Context, entityName string, params map[string]interface{}) (Entity, error) {
	enriched := EnrichParams(params, g.config.Operator)
	records, err := g.call(ctx, entityName, "create", nil, BuildRequest(enriched), ShapeUnwrapFirst)
	if err != nil {
		return nil, err
	}
	return records[0], nil
}

// Update strips the server-owned system fields before enrichment; id is
// retained to address the record.
func (g *Gateway) Update(ctx context.Context, entityName string, params map[string]interface{}) (Entity, error) {
	enriched := EnrichParams(StripSystemFields(params), g.config.Operator)
	records, err := g.call(ctx, entityName, "update", nil, BuildRequest(enriched), ShapeUnwrapFirst)
	if err != nil {
		return nil, err
	}
	return records[0], nil
}

// Delete needs only a SUCCESS envelope; absent data is not an error here.
func (g *Gateway) Delete(ctx context.Context, entityName, id string) error {
	params := EnrichParams(map[string]interface{}{FieldID: id}, g.config.Operator)
	_, err := g.call(ctx, entityName, "delete", nil, BuildRequest(params), ShapeNone)
	if err == nil {
		MirrorRemoveFunc(entityName, id)
	}
	return err
}

// GetByID fetches one record. The backend wraps single-get results in an
// array too.
func (g *Gateway) GetByID(ctx context.Context, entityName, id string) (Entity, error) {
	params := EnrichParams(map[string]interface{}{FieldID: id}, g.config.Operator)
	records, err := g.call(ctx, entityName, "get", nil, BuildRequest(params), ShapeUnwrapFirst)
	if err != nil {
		return nil, err
	}
	return records[0], nil
}

// PagedResult. The backend returns no true total for the list endpoint:
// Total is the length of the returned page, a known limitation.
type PagedResult struct {
	Records  []Entity `json:"records"`
	Total    int      `json:"total"`
	PageNum  int      `json:"pageNum"`
	PageSize int      `json:"pageSize"`
}

// List queries {entity}/list with paging as query parameters. A nil
// condition is normalized to an empty condition object, never omitted.
func (g *Gateway) List(ctx context.Context, entityName string, condition map[string]interface{},
	page, pageSize int) (*PagedResult, error) {

	if condition == nil {
		condition = map[string]interface{}{}
	}
	query := url.Values{}
	query.Set("curPage", strconv.Itoa(page))
	query.Set("pageSize", strconv.Itoa(pageSize))

	enriched := EnrichParams(condition, g.config.Operator)
	records, err := g.call(ctx, entityName, "list", query, BuildRequest(enriched), ShapeList)
	if err != nil {
		return nil, err
	}
	return &PagedResult{Records: records, Total: len(records), PageNum: page, PageSize: pageSize}, nil
}

// Filter of the find endpoint.
type Filter struct {
	Joiner     string      `json:"joiner"`
	Conditions []Condition `json:"conditions"`
}

type Condition struct {
	ConditionName   string        `json:"conditionName"`
	Operator        string        `json:"operator"`
	ConditionValues []interface{} `json:"conditionValues"`
}

type Sort struct {
	Field string `json:"field"`
	Order string `json:"order"`
}

const (
	JoinerAnd = "and"
	JoinerOr  = "or"

	OperatorEqual = "="
	OperatorLike  = "like"
	OperatorIn    = "in"

	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// Find queries {entity}/find/{pageSize}/{page} with a structured filter.
// Nested fields are addressed with the dotted form ("dept.id").
func (g *Gateway) Find(ctx context.Context, entityName string, filter *Filter, sorts []Sort,
	page, pageSize int) (*PagedResult, error) {

	if filter == nil {
		filter = &Filter{}
	}
	if filter.Joiner == "" {
		filter.Joiner = JoinerAnd
	}
	if filter.Conditions == nil {
		filter.Conditions = []Condition{}
	}
	if sorts == nil {
		sorts = []Sort{}
	}

	params := EnrichParams(map[string]interface{}{
		"filter": filter, "sorts": sorts, "isNeedTotal": true,
	}, g.config.Operator)

	operation := "find/" + strconv.Itoa(pageSize) + "/" + strconv.Itoa(page)
	records, err := g.call(ctx, entityName, operation, nil, BuildRequest(params), ShapeList)
	if err != nil {
		return nil, err
	}
	return &PagedResult{Records: records, Total: len(records), PageNum: page, PageSize: pageSize}, nil
}
