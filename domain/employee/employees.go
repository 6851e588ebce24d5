package employee

import (
	"context"

	"plmgate/client/plm"
)

var (
	EntityName = "Employee"

	CreateEmployeeFunc = CreateEmployee
	UpdateEmployeeFunc = UpdateEmployee
	DeleteEmployeeFunc = DeleteEmployee
	DetailEmployeeFunc = DetailEmployee
	QueryEmployeesFunc = QueryEmployees
)

type EmployeeCreation struct {
	Name     string `json:"name" binding:"required,lte=255"`
	Number   string `json:"number" binding:"required,lte=64"`
	DeptID   string `json:"deptId"`
	Email    string `json:"email" binding:"omitempty,email"`
	HireDate string `json:"hireDate"`
}

type EmployeeUpdating struct {
	Name     string `json:"name"`
	Number   string `json:"number"`
	DeptID   string `json:"deptId"`
	Email    string `json:"email" binding:"omitempty,email"`
	HireDate string `json:"hireDate"`
}

type EmployeeQuery struct {
	DeptID   string `json:"deptId" form:"deptId"`
	Name     string `json:"name" form:"name"`
	Page     int    `json:"page" form:"page"`
	PageSize int    `json:"pageSize" form:"pageSize"`
}

// Employee is the typed projection of an Employee record.
type Employee struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Number   string         `json:"number"`
	Dept     *plm.Reference `json:"dept"`
	Email    string         `json:"email,omitempty"`
	HireDate int64          `json:"hireDate,omitempty"`
}

func detailOf(record plm.Entity) (*Employee, error) {
	dept, err := record.Reference("dept")
	if err != nil {
		return nil, err
	}
	return &Employee{
		ID:       record.ID(),
		Name:     record.StringField("name"),
		Number:   record.StringField("number"),
		Dept:     dept,
		Email:    record.StringField("email"),
		HireDate: record.Int64Field("hireDate"),
	}, nil
}

func detailsOf(records []plm.Entity) ([]Employee, error) {
	details := make([]Employee, 0, len(records))
	for _, record := range records {
		d, err := detailOf(record)
		if err != nil {
			return nil, err
		}
		details = append(details, *d)
	}
	return details, nil
}

func CreateEmployee(ctx context.Context, creation EmployeeCreation) (*Employee, error) {
	params := map[string]interface{}{
		"name":   creation.Name,
		"number": creation.Number,
	}
	if creation.DeptID != "" {
		params["dept"] = plm.EncodeReference(&plm.Reference{ID: creation.DeptID})
	}
	if creation.Email != "" {
		params["email"] = creation.Email
	}
	if creation.HireDate != "" {
		params["hireDate"] = creation.HireDate
	}

	record, err := plm.ActiveGateway.Create(ctx, EntityName, params)
	if err != nil {
		return nil, err
	}
	return detailOf(record)
}

func UpdateEmployee(ctx context.Context, id string, updating EmployeeUpdating) (*Employee, error) {
	params := map[string]interface{}{plm.FieldID: id}
	if updating.Name != "" {
		params["name"] = updating.Name
	}
	if updating.Number != "" {
		params["number"] = updating.Number
	}
	if updating.DeptID != "" {
		params["dept"] = plm.EncodeReference(&plm.Reference{ID: updating.DeptID})
	}
	if updating.Email != "" {
		params["email"] = updating.Email
	}
	if updating.HireDate != "" {
		params["hireDate"] = updating.HireDate
	}

	record, err := plm.ActiveGateway.Update(ctx, EntityName, params)
	if err != nil {
		return nil, err
	}
	return detailOf(record)
}

func DeleteEmployee(ctx context.Context, id string) error {
	return plm.ActiveGateway.Delete(ctx, EntityName, id)
}

func DetailEmployee(ctx context.Context, id string) (*Employee, error) {
	record, err := plm.ActiveGateway.GetByID(ctx, EntityName, id)
	if err != nil {
		return nil, err
	}
	return detailOf(record)
}

type EmployeePage struct {
	Records  []Employee `json:"records"`
	Total    int        `json:"total"`
	PageNum  int        `json:"pageNum"`
	PageSize int        `json:"pageSize"`
}

// QueryEmployees lists employees. A department or name condition switches
// to the structured find endpoint; nested department matching uses the
// dotted field form.
func QueryEmployees(ctx context.Context, q EmployeeQuery) (*EmployeePage, error) {
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.PageSize <= 0 || q.PageSize > 500 {
		q.PageSize = 50
	}

	var result *plm.PagedResult
	var err error
	if q.DeptID == "" && q.Name == "" {
		result, err = plm.ActiveGateway.List(ctx, EntityName, nil, q.Page, q.PageSize)
	} else {
		filter := plm.Filter{Joiner: plm.JoinerAnd}
		if q.DeptID != "" {
			filter.Conditions = append(filter.Conditions, plm.Condition{
				ConditionName: "dept.id", Operator: plm.OperatorEqual, ConditionValues: []interface{}{q.DeptID},
			})
		}
		if q.Name != "" {
			filter.Conditions = append(filter.Conditions, plm.Condition{
				ConditionName: "name", Operator: plm.OperatorLike, ConditionValues: []interface{}{q.Name},
			})
		}
		sorts := []plm.Sort{{Field: "number", Order: plm.OrderAsc}}
		result, err = plm.ActiveGateway.Find(ctx, EntityName, &filter, sorts, q.Page, q.PageSize)
	}
	if err != nil {
		return nil, err
	}

	details, err := detailsOf(result.Records)
	if err != nil {
		return nil, err
	}
	return &EmployeePage{Records: details, Total: result.Total, PageNum: result.PageNum, PageSize: result.PageSize}, nil
}
