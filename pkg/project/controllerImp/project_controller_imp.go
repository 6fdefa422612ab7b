package controllerImp

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"shiptrack/pkg/ingest"
	"shiptrack/pkg/middleware"
	"shiptrack/pkg/project/repository"
	svc "shiptrack/pkg/project/service"
	"shiptrack/pkg/tabular"
)

type ProjectCtrl struct {
	s   svc.Service
	log *zap.Logger
}

func New(s svc.Service, log *zap.Logger) *ProjectCtrl {
	if log == nil {
		log = zap.NewNop()
	}
	return &ProjectCtrl{s: s, log: log}
}

func (h *ProjectCtrl) List(c echo.Context) error {
	var f svc.Filter
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &f); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid query"})
	}
	view, err := h.s.List(c.Request().Context(), f)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, view)
}

func (h *ProjectCtrl) Export(c echo.Context) error {
	var f svc.Filter
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &f); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid query"})
	}
	x, err := h.s.Export(c.Request().Context(), f)
	if err != nil {
		return h.fail(c, err)
	}
	defer func() { _ = x.Close() }()

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	res.Header().Set(echo.HeaderContentDisposition, `attachment; filename="status_view.xlsx"`)
	res.WriteHeader(http.StatusOK)
	return x.Write(res)
}

func (h *ProjectCtrl) Create(c echo.Context) error {
	var req createReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	p, err := h.s.CreateFromForm(c.Request().Context(), req.candidate())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message":    "created " + p.ProjectID,
		"project_id": p.ProjectID,
		"project":    p,
	})
}

// Paste takes {"text": ...}, a text form field or a raw text/plain body.
func (h *ProjectCtrl) Paste(c echo.Context) error {
	var req pasteReq
	if strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMETextPlain) {
		raw, err := io.ReadAll(c.Request().Body)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		req.Text = string(raw)
	} else if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	tally, err := h.s.CreateFromPaste(c.Request().Context(), req.Text)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, tallyBody(tally))
}

func (h *ProjectCtrl) Import(c echo.Context) error {
	name, rc, err := upload(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	defer rc.Close()

	tally, err := h.s.CreateFromFile(c.Request().Context(), name, rc)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, tallyBody(tally))
}

func (h *ProjectCtrl) ImportLogistics(c echo.Context) error {
	name, rc, err := upload(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	defer rc.Close()

	synced, err := h.s.ImportLogistics(c.Request().Context(), name, rc)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "import ok", "latest_sync": synced})
}

func (h *ProjectCtrl) QuickPI(c echo.Context) error {
	var req piReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	p, err := h.s.QuickPI(c.Request().Context(), c.Param("id"), req.PI, middleware.ActorFrom(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *ProjectCtrl) ListLogs(c echo.Context) error {
	logs, err := h.s.ListLogs(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, logs)
}

func (h *ProjectCtrl) AddStatus(c echo.Context) error {
	var req statusReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	l, err := h.s.AddStatus(c.Request().Context(), c.Param("id"), req.StatusText, req.Note, middleware.ActorFrom(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, l)
}

func (h *ProjectCtrl) BulkStatus(c echo.Context) error {
	var req bulkReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	f := svc.BulkFilter{Bill: req.Bill, Lot: req.Lot, Declaration: req.Declaration}
	n, err := h.s.BulkStatus(c.Request().Context(), f, req.StatusText, req.Note, middleware.ActorFrom(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": fmt.Sprintf("status written for %d projects", n),
		"updated": n,
	})
}

func tallyBody(t ingest.Tally) echo.Map {
	return echo.Map{
		"message": fmt.Sprintf("created %d, skipped %d", t.Created, t.Skipped),
		"created": t.Created,
		"skipped": t.Skipped,
	}
}

func upload(c echo.Context) (string, io.ReadCloser, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		return "", nil, errors.New("missing file field")
	}
	f, err := fh.Open()
	if err != nil {
		return "", nil, err
	}
	return fh.Filename, f, nil
}

// fail maps service errors onto status codes; anything unknown is a 500.
func (h *ProjectCtrl) fail(c echo.Context, err error) error {
	var (
		merr  *ingest.MappingError
		verr  *ingest.ValidationError
		ioerr *tabular.IOError
	)
	status := http.StatusInternalServerError
	switch {
	case errors.As(err, &merr), errors.As(err, &verr), errors.Is(err, svc.ErrNoMatch):
		status = http.StatusUnprocessableEntity
	case errors.As(err, &ioerr),
		errors.Is(err, svc.ErrBlankPI),
		errors.Is(err, svc.ErrBlankStatus),
		errors.Is(err, svc.ErrEmptyInput):
		status = http.StatusBadRequest
	case errors.Is(err, repository.ErrNotFound):
		status = http.StatusNotFound
	}
	if status == http.StatusInternalServerError {
		h.log.Error("request failed", zap.String("path", c.Path()), zap.Error(err))
	}
	return c.JSON(status, echo.Map{"error": err.Error()})
}
