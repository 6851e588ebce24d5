package workingplan

import (
	"context"

	"plmgate/client/plm"
)

var (
	EntityName = "WorkingPlan"

	CreateWorkingPlanFunc   = CreateWorkingPlan
	QueryWorkingPlansFunc   = QueryWorkingPlans
	CheckoutWorkingPlanFunc = CheckoutWorkingPlan
	CheckinWorkingPlanFunc  = CheckinWorkingPlan
)

type WorkingPlanCreation struct {
	Name             string `json:"name" binding:"required,lte=255"`
	PartID           string `json:"partId"`
	PlannedStartTime string `json:"plannedStartTime"`
	PlannedEndTime   string `json:"plannedEndTime"`
}

type WorkingPlanQuery struct {
	Page     int `json:"page" form:"page"`
	PageSize int `json:"pageSize" form:"pageSize"`
}

type WorkingPlanCheckout struct {
	MasterID     string `json:"masterId" binding:"required"`
	WorkCopyType string `json:"workCopyType"`
}

type WorkingPlanCheckin struct {
	MasterID string `json:"masterId" binding:"required"`
	ViewNo   string `json:"viewNo"`
}

type WorkingPlan struct {
	ID               string         `json:"id"`
	Name             string         `json:"name"`
	Part             *plm.Reference `json:"part"`
	PlannedStartTime int64          `json:"plannedStartTime,omitempty"`
	PlannedEndTime   int64          `json:"plannedEndTime,omitempty"`

	Master      *plm.Reference `json:"master"`
	Version     string         `json:"version"`
	Latest      bool           `json:"latest"`
	WorkingCopy bool           `json:"workingCopy"`
}

func detailOf(record plm.Entity) (*WorkingPlan, error) {
	partRef, err := record.Reference("part")
	if err != nil {
		return nil, err
	}
	master, err := record.Master()
	if err != nil {
		return nil, err
	}
	return &WorkingPlan{
		ID:               record.ID(),
		Name:             record.StringField("name"),
		Part:             partRef,
		PlannedStartTime: record.Int64Field("plannedStartTime"),
		PlannedEndTime:   record.Int64Field("plannedEndTime"),

		Master:      master,
		Version:     record.VersionLabel(),
		Latest:      record.Latest(),
		WorkingCopy: record.IsWorkingCopy(),
	}, nil
}

func CreateWorkingPlan(ctx context.Context, creation WorkingPlanCreation) (*WorkingPlan, error) {
	params := map[string]interface{}{"name": creation.Name}
	if creation.PartID != "" {
		params["part"] = plm.EncodeReference(&plm.Reference{ID: creation.PartID})
	}
	if creation.PlannedStartTime != "" {
		params["plannedStartTime"] = creation.PlannedStartTime
	}
	if creation.PlannedEndTime != "" {
		params["plannedEndTime"] = creation.PlannedEndTime
	}

	record, err := plm.ActiveGateway.Create(ctx, EntityName, plm.NewVersionObjectParams(params))
	if err != nil {
		return nil, err
	}
	return detailOf(record)
}

type WorkingPlanPage struct {
	Records  []WorkingPlan `json:"records"`
	Total    int           `json:"total"`
	PageNum  int           `json:"pageNum"`
	PageSize int           `json:"pageSize"`
}

func QueryWorkingPlans(ctx context.Context, q WorkingPlanQuery) (*WorkingPlanPage, error) {
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.PageSize <= 0 || q.PageSize > 500 {
		q.PageSize = 50
	}

	result, err := plm.ActiveGateway.List(ctx, EntityName, nil, q.Page, q.PageSize)
	if err != nil {
		return nil, err
	}

	details := make([]WorkingPlan, 0, len(result.Records))
	for _, record := range result.Records {
		d, err := detailOf(record)
		if err != nil {
			return nil, err
		}
		details = append(details, *d)
	}
	return &WorkingPlanPage{Records: details, Total: result.Total, PageNum: result.PageNum, PageSize: result.PageSize}, nil
}

func CheckoutWorkingPlan(ctx context.Context, checkout WorkingPlanCheckout) (*WorkingPlan, error) {
	record, err := plm.ActiveGateway.Checkout(ctx, EntityName, checkout.MasterID, checkout.WorkCopyType)
	if err != nil {
		return nil, err
	}
	return detailOf(record)
}

func CheckinWorkingPlan(ctx context.Context, checkin WorkingPlanCheckin) (*WorkingPlan, error) {
	record, err := plm.ActiveGateway.Checkin(ctx, EntityName, checkin.MasterID, checkin.ViewNo)
	if err != nil {
		return nil, err
	}
	return detailOf(record)
}
