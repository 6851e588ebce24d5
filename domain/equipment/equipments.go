package equipment

import (
	"context"

	"plmgate/client/plm"
)

var (
	EntityName = "Equipment"

	CreateEquipmentFunc = CreateEquipment
	UpdateEquipmentFunc = UpdateEquipment
	DeleteEquipmentFunc = DeleteEquipment
	DetailEquipmentFunc = DetailEquipment
	QueryEquipmentsFunc = QueryEquipments
)

type EquipmentCreation struct {
	Name        string `json:"name" binding:"required,lte=255"`
	Number      string `json:"number" binding:"required,lte=64"`
	PartnerType string `json:"partnerType"`
	WorkshopID  string `json:"workshopId"`
}

type EquipmentUpdating struct {
	Name        string `json:"name"`
	Number      string `json:"number"`
	PartnerType string `json:"partnerType"`
	WorkshopID  string `json:"workshopId"`
}

type EquipmentQuery struct {
	Name     string `json:"name" form:"name"`
	Page     int    `json:"page" form:"page"`
	PageSize int    `json:"pageSize" form:"pageSize"`
}

// Equipment is the typed projection of an Equipment record. PartnerType
// is an enumeration on the backend: written as a bare code, read back
// structured.
type Equipment struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Number      string              `json:"number"`
	PartnerType *plm.CodedReference `json:"partnerType"`
	Workshop    *plm.Reference      `json:"workshop"`
}

func detailOf(record plm.Entity) (*Equipment, error) {
	partnerType, err := record.CodedReference("partnerType")
	if err != nil {
		return nil, err
	}
	workshop, err := record.Reference("workshop")
	if err != nil {
		return nil, err
	}
	return &Equipment{
		ID:          record.ID(),
		Name:        record.StringField("name"),
		Number:      record.StringField("number"),
		PartnerType: partnerType,
		Workshop:    workshop,
	}, nil
}

func CreateEquipment(ctx context.Context, creation EquipmentCreation) (*Equipment, error) {
	params := map[string]interface{}{
		"name":   creation.Name,
		"number": creation.Number,
	}
	if coded := plm.EncodeCodedReference(&plm.CodedReference{Code: creation.PartnerType}); coded != nil {
		params["partnerType"] = coded
	}
	if creation.WorkshopID != "" {
		params["workshop"] = plm.EncodeReference(&plm.Reference{ID: creation.WorkshopID})
	}

	record, err := plm.ActiveGateway.Create(ctx, EntityName, params)
	if err != nil {
		return nil, err
	}
	return detailOf(record)
}

func UpdateEquipment(ctx context.Context, id string, updating EquipmentUpdating) (*Equipment, error) {
	params := map[string]interface{}{plm.FieldID: id}
	if updating.Name != "" {
		params["name"] = updating.Name
	}
	if updating.Number != "" {
		params["number"] = updating.Number
	}
	if coded := plm.EncodeCodedReference(&plm.CodedReference{Code: updating.PartnerType}); coded != nil {
		params["partnerType"] = coded
	}
	if updating.WorkshopID != "" {
		params["workshop"] = plm.EncodeReference(&plm.Reference{ID: updating.WorkshopID})
	}

	record, err := plm.ActiveGateway.Update(ctx, EntityName, params)
	if err != nil {
		return nil, err
	}
	return detailOf(record)
}

func DeleteEquipment(ctx context.Context, id string) error {
	return plm.ActiveGateway.Delete(ctx, EntityName, id)
}

func DetailEquipment(ctx context.Context, id string) (*Equipment, error) {
	record, err := plm.ActiveGateway.GetByID(ctx, EntityName, id)
	if err != nil {
		return nil, err
	}
	return detailOf(record)
}

type EquipmentPage struct {
	Records  []Equipment `json:"records"`
	Total    int         `json:"total"`
	PageNum  int         `json:"pageNum"`
	PageSize int         `json:"pageSize"`
}

func QueryEquipments(ctx context.Context, q EquipmentQuery) (*EquipmentPage, error) {
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

	details := make([]Equipment, 0, len(result.Records))
	for _, record := range result.Records {
		d, err := detailOf(record)
		if err != nil {
			return nil, err
		}
		details = append(details, *d)
	}
	return &EquipmentPage{Records: details, Total: result.Total, PageNum: result.PageNum, PageSize: result.PageSize}, nil
}
