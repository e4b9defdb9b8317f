package company

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/Huulamnguyen/biztime/internal/entity"
	"github.com/Huulamnguyen/biztime/internal/event"
	"github.com/Huulamnguyen/biztime/internal/testutil"
)

type CompanyHandlerSuite struct {
	suite.Suite
	app     *testutil.App
	apple   entity.Company
	invoice entity.Invoice
}

func TestCompanyHandler(t *testing.T) {
	suite.Run(t, new(CompanyHandlerSuite))
}

func (s *CompanyHandlerSuite) SetupTest() {
	s.app = testutil.NewApp(s.T())
	Register(s.app.Echo, NewHandler(s.app.Companies))
	s.apple, s.invoice = s.app.DB.SeedApple()
}

func (s *CompanyHandlerSuite) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	s.app.Echo.ServeHTTP(rec, req)
	return rec
}

func (s *CompanyHandlerSuite) TestList() {
	s.app.DB.SeedCompany(entity.Company{Code: "ibm", Name: "IBM", Description: "Big blue."})

	rec := s.do(http.MethodGet, "/companies", "")

	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"companies":[{"code":"apple","name":"Apple Computer"},{"code":"ibm","name":"IBM"}]}`, rec.Body.String())
}

func (s *CompanyHandlerSuite) TestListEmpty() {
	_, err := s.app.DB.Companies().Delete(context.Background(), "apple")
	s.Require().NoError(err)

	rec := s.do(http.MethodGet, "/companies", "")

	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"companies":[]}`, rec.Body.String())
}

func (s *CompanyHandlerSuite) TestGetIncludesInvoices() {
	second := s.app.DB.SeedInvoice(entity.Invoice{CompCode: "apple", Amount: decimal.NewNullDecimal(decimal.NewFromInt(1))})

	rec := s.do(http.MethodGet, "/companies/apple", "")

	s.Require().Equal(http.StatusOK, rec.Code)

	var body struct {
		Company struct {
			Code        string `json:"code"`
			Name        string `json:"name"`
			Description string `json:"description"`
			Invoices    []struct {
				ID       int64   `json:"id"`
				CompCode string  `json:"comp_code"`
				Amount   float64 `json:"amt"`
				Paid     bool    `json:"paid"`
				AddDate  *string `json:"add_date"`
				PaidDate *string `json:"paid_date"`
			} `json:"invoices"`
		} `json:"company"`
	}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))

	s.Equal("apple", body.Company.Code)
	s.Equal("Apple Computer", body.Company.Name)
	s.Equal("Maker of OSX.", body.Company.Description)
	s.Require().Len(body.Company.Invoices, 2)

	first := body.Company.Invoices[0]
	s.Equal(s.invoice.ID, first.ID)
	s.Equal("apple", first.CompCode)
	s.Equal(300.0, first.Amount)
	s.True(first.Paid)
	s.Require().NotNil(first.AddDate)
	s.Equal("2024-03-01T00:00:00Z", *first.AddDate)
	s.Nil(first.PaidDate)

	s.Equal(second.ID, body.Company.Invoices[1].ID)
	s.Equal(1.0, body.Company.Invoices[1].Amount)
	s.Equal(int64(1), s.app.DB.Snapshots())
}

func (s *CompanyHandlerSuite) TestGetWithoutInvoicesReturnsEmptyList() {
	s.app.DB.SeedCompany(entity.Company{Code: "ibm", Name: "IBM"})

	rec := s.do(http.MethodGet, "/companies/ibm", "")

	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"company":{"code":"ibm","name":"IBM","description":"","invoices":[]}}`, rec.Body.String())
}

func (s *CompanyHandlerSuite) TestGetUnknownCode() {
	rec := s.do(http.MethodGet, "/companies/fie", "")

	s.Equal(http.StatusNotFound, rec.Code)
	s.JSONEq(`{"error":{"kind":"not_found","message":"Company not found for code of fie","status":404,"details":{"code":"fie"}}}`, rec.Body.String())
}

func (s *CompanyHandlerSuite) TestCreate() {
	rec := s.do(http.MethodPost, "/companies", `{"code":"fie","name":"Forward Insight","description":"a start-up company"}`)

	s.Equal(http.StatusCreated, rec.Code)
	s.JSONEq(`{"company":{"code":"fie","name":"Forward Insight","description":"a start-up company"}}`, rec.Body.String())

	stored, ok := s.app.DB.Company("fie")
	s.Require().True(ok)
	s.Equal("Forward Insight", stored.Name)

	msgs := s.app.Publisher.Messages()
	s.Require().Len(msgs, 1)
	s.Equal(string(event.CompanyCreated), msgs[0].Headers[event.HeaderType])
	s.Equal("fie", string(msgs[0].Key))
}

func (s *CompanyHandlerSuite) TestCreateThenGetRoundTrips() {
	created := s.do(http.MethodPost, "/companies", `{"code":"fie","name":"Forward Insight","description":"a start-up company"}`)
	s.Require().Equal(http.StatusCreated, created.Code)

	rec := s.do(http.MethodGet, "/companies/fie", "")

	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"company":{"code":"fie","name":"Forward Insight","description":"a start-up company","invoices":[]}}`, rec.Body.String())
}

func (s *CompanyHandlerSuite) TestCreateDuplicateIsInternalError() {
	rec := s.do(http.MethodPost, "/companies", `{"code":"apple","name":"Apple again"}`)

	s.Equal(http.StatusInternalServerError, rec.Code)
	s.JSONEq(`{"error":{"kind":"internal","message":"failed to create company","status":500}}`, rec.Body.String())
	s.NotContains(rec.Body.String(), "duplicate key")
	s.Empty(s.app.Publisher.Messages())
}

func (s *CompanyHandlerSuite) TestCreateWithoutRequiredFieldsIsInternalError() {
	for _, body := range []string{`{}`, `{"code":"ibm"}`, `{"name":"IBM"}`, `{"code":"ibm","name":null}`} {
		rec := s.do(http.MethodPost, "/companies", body)

		s.Equal(http.StatusInternalServerError, rec.Code, body)
		s.JSONEq(`{"error":{"kind":"internal","message":"failed to create company","status":500}}`, rec.Body.String())
	}
	s.Equal(1, s.app.DB.CompanyCount())
	s.Empty(s.app.Publisher.Messages())
}

func (s *CompanyHandlerSuite) TestUpdateWithoutNameIsInternalError() {
	rec := s.do(http.MethodPatch, "/companies/apple", `{"description":"Maker of M1 chip"}`)

	s.Equal(http.StatusInternalServerError, rec.Code)
	stored, _ := s.app.DB.Company("apple")
	s.Equal("Apple Computer", stored.Name)
	s.Equal("Maker of OSX.", stored.Description)

	rec = s.do(http.MethodPatch, "/companies/fie", `{}`)
	s.Equal(http.StatusNotFound, rec.Code)
	s.Empty(s.app.Publisher.Messages())
}

func (s *CompanyHandlerSuite) TestCreateMalformedBody() {
	rec := s.do(http.MethodPost, "/companies", `{"code":`)

	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal(1, s.app.DB.CompanyCount())
}

func (s *CompanyHandlerSuite) TestUpdate() {
	rec := s.do(http.MethodPatch, "/companies/apple", `{"name":"New Apple","description":"Maker of M1 chip"}`)

	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"company":{"code":"apple","name":"New Apple","description":"Maker of M1 chip"}}`, rec.Body.String())

	stored, _ := s.app.DB.Company("apple")
	s.Equal("New Apple", stored.Name)
	s.Equal("Maker of M1 chip", stored.Description)
}

func (s *CompanyHandlerSuite) TestUpdateUnknownCode() {
	rec := s.do(http.MethodPatch, "/companies/fie", `{"name":"New Apple","description":"Maker of M1 chip"}`)

	s.Equal(http.StatusNotFound, rec.Code)
	s.Contains(rec.Body.String(), "Can't update company with code of fie")

	_, exists := s.app.DB.Company("fie")
	s.False(exists)
	stored, _ := s.app.DB.Company("apple")
	s.Equal("Apple Computer", stored.Name)
}

func (s *CompanyHandlerSuite) TestDelete() {
	rec := s.do(http.MethodDelete, "/companies/apple", "")

	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"msg":"DELETED!"}`, rec.Body.String())
	s.Equal(0, s.app.DB.CompanyCount())

	_, invoiceLeft := s.app.DB.Invoice(s.invoice.ID)
	s.False(invoiceLeft)
}

func (s *CompanyHandlerSuite) TestDeleteUnknownCodeStillSucceeds() {
	rec := s.do(http.MethodDelete, "/companies/nope", "")

	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"msg":"DELETED!"}`, rec.Body.String())
	s.Empty(s.app.Publisher.Messages())
}

func (s *CompanyHandlerSuite) TestStoreFailureIsInternalError() {
	s.app.DB.FailWith = errors.New("connection refused")

	rec := s.do(http.MethodGet, "/companies", "")

	s.Equal(http.StatusInternalServerError, rec.Code)
	s.NotContains(rec.Body.String(), "connection refused")
}

func (s *CompanyHandlerSuite) TestUnknownRouteUsesErrorBody() {
	rec := s.do(http.MethodPut, "/companies/apple", `{}`)

	s.Equal(http.StatusMethodNotAllowed, rec.Code)
	s.Contains(rec.Body.String(), `"kind":"method_not_allowed"`)
}
