package part

import (
	"context"

	"plmgate/client/plm"
)

var (
	EntityName = "Part"

	CreatePartFunc   = CreatePart
	UpdatePartFunc   = UpdatePart
	DeletePartFunc   = DeletePart
	DetailPartFunc   = DetailPart
	QueryPartsFunc   = QueryParts
	CheckoutPartFunc = CheckoutPart
	CheckinPartFunc  = CheckinPart
	PartVersionsFunc = PartVersions
)

type PartCreation struct {
	Name      string `json:"name" binding:"required,lte=255"`
	Number    string `json:"number" binding:"required,lte=64"`
	Material  string `json:"material"`
	DrawingNo string `json:"drawingNo"`
}

type PartUpdating struct {
	Name      string `json:"name"`
	Material  string `json:"material"`
	DrawingNo string `json:"drawingNo"`
}

type PartQuery struct {
	Name     string `json:"name" form:"name"`
	Page     int    `json:"page" form:"page"`
	PageSize int    `json:"pageSize" form:"pageSize"`
}

type PartCheckout struct {
	MasterID     string `json:"masterId" binding:"required"`
	WorkCopyType string `json:"workCopyType"`
}

type PartCheckin struct {
	MasterID string `json:"masterId" binding:"required"`
	ViewNo   string `json:"viewNo"`
}

// Part is the typed projection of a Part version object. Master and
// Branch identify the version tree; Version/Latest/WorkingState describe
// this record's place in it.
type Part struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Number    string `json:"number"`
	Material  string `json:"material,omitempty"`
	DrawingNo string `json:"drawingNo,omitempty"`

	Master       *plm.Reference      `json:"master"`
	Branch       *plm.Reference      `json:"branch"`
	Version      string              `json:"version"`
	Latest       bool                `json:"latest"`
	WorkingCopy  bool                `json:"workingCopy"`
	WorkingState *plm.CodedReference `json:"workingState"`
}

func detailOf(record plm.Entity) (*Part, error) {
	master, err := record.Master()
	if err != nil {
		return nil, err
	}
	branch, err := record.Branch()
	if err != nil {
		return nil, err
	}
	workingState, err := record.WorkingState()
	if err != nil {
		return nil, err
	}
	return &Part{
		ID:        record.ID(),
		Name:      record.StringField("name"),
		Number:    record.StringField("number"),
		Material:  record.StringField("material"),
		DrawingNo: record.StringField("drawingNo"),

		Master:       master,
		Branch:       branch,
		Version:      record.VersionLabel(),
		Latest:       record.Latest(),
		WorkingCopy:  record.IsWorkingCopy(),
		WorkingState: workingState,
	}, nil
}

func detailsOf(records []plm.Entity) ([]Part, error) {
	details := make([]Part, 0, len(records))
	for _, record := range records {
		d, err := detailOf(record)
		if err != nil {
			return nil, err
		}
		details = append(details, *d)
	}
	return details, nil
}

// CreatePart creates the first version of a new part. The version tree
// placeholders are set here; the backend allocates master and branch
// identities in the response.
func CreatePart(ctx context.Context, creation PartCreation) (*Part, error) {
	params := map[string]interface{}{
		"name":   creation.Name,
		"number": creation.Number,
	}
	if creation.Material != "" {
		params["material"] = creation.Material
	}
	if creation.DrawingNo != "" {
		params["drawingNo"] = creation.DrawingNo
	}

	record, err := plm.ActiveGateway.Create(ctx, EntityName, plm.NewVersionObjectParams(params))
	if err != nil {
		return nil, err
	}
	return detailOf(record)
}

// UpdatePart modifies a working copy in place. Updating a checked-in
// version is rejected by the backend, not pre-checked here.
func UpdatePart(ctx context.Context, id string, updating PartUpdating) (*Part, error) {
	params := map[string]interface{}{plm.FieldID: id}
	if updating.Name != "" {
		params["name"] = updating.Name
	}
	if updating.Material != "" {
		params["material"] = updating.Material
	}
	if updating.DrawingNo != "" {
		params["drawingNo"] = updating.DrawingNo
	}

	record, err := plm.ActiveGateway.Update(ctx, EntityName, params)
	if err != nil {
		return nil, err
	}
	return detailOf(record)
}

func DeletePart(ctx context.Context, id string) error {
	return plm.ActiveGateway.Delete(ctx, EntityName, id)
}

func DetailPart(ctx context.Context, id string) (*Part, error) {
	record, err := plm.ActiveGateway.GetByID(ctx, EntityName, id)
	if err != nil {
		return nil, err
	}
	return detailOf(record)
}

type PartPage struct {
	Records  []Part `json:"records"`
	Total    int    `json:"total"`
	PageNum  int    `json:"pageNum"`
	PageSize int    `json:"pageSize"`
}

func QueryParts(ctx context.Context, q PartQuery) (*PartPage, error) {
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.PageSize <= 0 || q.PageSize > 500 {
		q.PageSize = 50
	}

	var result *plm.PagedResult
	var err error
	if q.Name == "" {
		result, err = plm.ActiveGateway.List(ctx, EntityName, nil, q.Page, q.PageSize)
	} else {
		filter := plm.Filter{Joiner: plm.JoinerAnd, Conditions: []plm.Condition{
			{ConditionName: "name", Operator: plm.OperatorLike, ConditionValues: []interface{}{q.Name}},
		}}
		result, err = plm.ActiveGateway.Find(ctx, EntityName, &filter, nil, q.Page, q.PageSize)
	}
	if err != nil {
		return nil, err
	}

	details, err := detailsOf(result.Records)
	if err != nil {
		return nil, err
	}
	return &PartPage{Records: details, Total: result.Total, PageNum: result.PageNum, PageSize: result.PageSize}, nil
}

func CheckoutPart(ctx context.Context, checkout PartCheckout) (*Part, error) {
	record, err := plm.ActiveGateway.Checkout(ctx, EntityName, checkout.MasterID, checkout.WorkCopyType)
	if err != nil {
		return nil, err
	}
	return detailOf(record)
}

func CheckinPart(ctx context.Context, checkin PartCheckin) (*Part, error) {
	record, err := plm.ActiveGateway.Checkin(ctx, EntityName, checkin.MasterID, checkin.ViewNo)
	if err != nil {
		return nil, err
	}
	return detailOf(record)
}

func PartVersions(ctx context.Context, masterID string) ([]Part, error) {
	records, err := plm.ActiveGateway.VersionHistory(ctx, EntityName, masterID)
	if err != nil {
		return nil, err
	}
	return detailsOf(records)
}
