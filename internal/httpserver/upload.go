package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/santu/marketplace/internal/upload"
	"github.com/santu/marketplace/pkg/logging"
	"github.com/santu/marketplace/pkg/metrics"
)

type UploadHTTP struct {
	Relay   *upload.Relay
	Metrics *metrics.Collector
}

func (h *UploadHTTP) Upload(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "upload")

	fh, err := c.FormFile("file")
	if err != nil {
		l.Warn("upload_error", "status", http.StatusBadRequest, "reason", "missing file", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, upload.ErrNoFile.Error())
	}
	f, err := fh.Open()
	if err != nil {
		l.Warn("upload_error", "status", http.StatusBadRequest, "reason", "unreadable file", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "file is unreadable")
	}
	defer f.Close()

	res, err := h.Relay.Upload(ctx, upload.Input{
		File:     f,
		Filename: fh.Filename,
		Size:     fh.Size,
		Type:     c.FormValue("type"),
		Prefix:   c.FormValue("prefix"),
	})
	if err != nil {
		h.record(false)
		if errors.Is(err, upload.ErrNoFile) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		l.Error("upload_error", "status", http.StatusInternalServerError, "reason", "store failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "upload failed: "+err.Error())
	}

	h.record(true)
	l.Info("upload_success", "key", res.Key, "size", fh.Size)
	return c.JSON(http.StatusOK, res)
}

func (h *UploadHTTP) record(ok bool) {
	if h.Metrics != nil {
		h.Metrics.RecordUpload(ok)
	}
}
