package http

import (
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/aksamedia/aksamedia-admin/internal/api/respond"
	"github.com/aksamedia/aksamedia-admin/internal/employee"
	"github.com/aksamedia/aksamedia-admin/internal/validation"
	"github.com/aksamedia/aksamedia-admin/pkg/logger"
)

// multipart bodies may carry the image plus a little form data
const maxEmployeeForm = employee.MaxImageBytes + 1<<20

type divisionRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type employeeView struct {
	ID       string      `json:"id"`
	Image    string      `json:"image"`
	Name     string      `json:"name"`
	Phone    string      `json:"phone"`
	Division divisionRef `json:"division"`
	Position string      `json:"position"`
}

type employeeList struct {
	Employees []employeeView `json:"employees"`
}

type employeeData struct {
	Employee employeeView `json:"employee"`
}

func toEmployeeView(r *http.Request, baseURL string, svc *employee.Service, e employee.Employee) employeeView {
	return employeeView{
		ID:       e.ID,
		Image:    absoluteURL(r, baseURL, svc.ImageURL(e)),
		Name:     e.Name,
		Phone:    e.Phone,
		Division: divisionRef{ID: e.DivisionID, Name: e.DivisionName},
		Position: e.Position,
	}
}

// ListEmployeesHandler pages employees, optionally filtered by ?name and ?division_id.
func ListEmployeesHandler(svc *employee.Service, baseURL string, perPage int, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page := pageParam(r)
		q := r.URL.Query()
		list, total, err := svc.List(r.Context(), employee.ListOpts{
			Name:       strings.TrimSpace(q.Get("name")),
			DivisionID: strings.TrimSpace(q.Get("division_id")),
			Page:       page,
			PerPage:    perPage,
		})
		if err != nil {
			log.Error(r.Context(), "list employees", logger.Error(err))
			respond.Error(w, http.StatusInternalServerError, "An unexpected error occurred while retrieving employee data")
			return
		}
		views := make([]employeeView, 0, len(list))
		for _, e := range list {
			views = append(views, toEmployeeView(r, baseURL, svc, e))
		}
		respond.Paged(w, "Employees retrieved successfully",
			employeeList{Employees: views},
			newPagination(r, baseURL, total, page, perPage, len(views)))
	}
}

// CreateEmployeeHandler takes a multipart form with an image file and the employee fields.
func CreateEmployeeHandler(svc *employee.Service, baseURL string, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxEmployeeForm)
		if err := r.ParseMultipartForm(maxEmployeeForm); err != nil && !errors.Is(err, http.ErrNotMultipart) {
			respond.Validation(w, validation.Errors{"image": {"request must be a multipart form of at most 3 MiB"}})
			return
		}
		in := employee.NewEmployee{
			Name:       r.FormValue("name"),
			Phone:      r.FormValue("phone"),
			DivisionID: r.FormValue("division"),
			Position:   r.FormValue("position"),
		}
		img, closeImg := formImage(r)
		defer closeImg()

		e, err := svc.Create(r.Context(), in, img)
		if err != nil {
			writeEmployeeError(w, r, log, "create employee", err)
			return
		}
		respond.Success(w, http.StatusCreated, "Employee created successfully", employeeData{Employee: toEmployeeView(r, baseURL, svc, e)})
	}
}

// UpdateEmployeeHandler applies a partial update sent as JSON or as a multipart form.
func UpdateEmployeeHandler(svc *employee.Service, baseURL string, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		var (
			p        employee.Patch
			img      *employee.Image
			closeImg = func() {}
		)
		if isJSON(r) {
			if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
				respond.Validation(w, validation.Errors{"body": {"body must be a JSON object"}})
				return
			}
		} else {
			r.Body = http.MaxBytesReader(w, r.Body, maxEmployeeForm)
			if err := r.ParseMultipartForm(maxEmployeeForm); err != nil && !errors.Is(err, http.ErrNotMultipart) {
				respond.Validation(w, validation.Errors{"image": {"request must be a multipart form of at most 3 MiB"}})
				return
			}
			p = employee.Patch{
				Name:       formField(r, "name"),
				Phone:      formField(r, "phone"),
				DivisionID: formField(r, "division"),
				Position:   formField(r, "position"),
			}
			img, closeImg = formImage(r)
		}
		defer closeImg()

		e, err := svc.Update(r.Context(), id, p, img)
		if err != nil {
			writeEmployeeError(w, r, log, "update employee", err)
			return
		}
		respond.Success(w, http.StatusOK, "Employee updated successfully", employeeData{Employee: toEmployeeView(r, baseURL, svc, e)})
	}
}

func DeleteEmployeeHandler(svc *employee.Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
			writeEmployeeError(w, r, log, "delete employee", err)
			return
		}
		respond.Success(w, http.StatusOK, "Employee deleted successfully", nil)
	}
}

func writeEmployeeError(w http.ResponseWriter, r *http.Request, log logger.Logger, op string, err error) {
	if ve, ok := validation.As(err); ok {
		respond.Validation(w, ve.Fields)
		return
	}
	if errors.Is(err, employee.ErrNotFound) {
		respond.Error(w, http.StatusNotFound, "Employee not found")
		return
	}
	log.Error(r.Context(), op, logger.Error(err))
	respond.Error(w, http.StatusInternalServerError, "An unexpected error occurred while processing employee data")
}

// formField returns nil when the form does not carry key.
func formField(r *http.Request, key string) *string {
	vals := r.PostForm[key]
	if len(vals) == 0 {
		return nil
	}
	v := vals[0]
	return &v
}

func formImage(r *http.Request) (*employee.Image, func()) {
	if r.MultipartForm == nil {
		return nil, func() {}
	}
	fhs := r.MultipartForm.File["image"]
	if len(fhs) == 0 {
		return nil, func() {}
	}
	f, err := fhs[0].Open()
	if err != nil {
		return nil, func() {}
	}
	return &employee.Image{Filename: fhs[0].Filename, Body: f}, closer(f)
}

func closer(f multipart.File) func() {
	return func() { _ = f.Close() }
}
