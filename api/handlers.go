package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/hazyhaar/pdfsheet/convert"
	"github.com/hazyhaar/pdfsheet/horosafe"
	"github.com/hazyhaar/pdfsheet/kit"
)

// Multipart parts up to this size stay in memory; larger ones spill to disk
// inside net/http until the request ends.
const multipartMemory = 32 << 20

func (s *Server) handleHome(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"service": s.opts.Info.Title,
		"version": s.opts.Info.Version,
		"endpoints": map[string]string{
			"health":  "/health",
			"convert": "/convert (POST)",
		},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": s.opts.Info.Name,
		"version": s.opts.Info.Version,
	})
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	ctx := kit.WithTransport(r.Context(), "http")

	doc, err := s.readUpload(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	res, err := s.conv.Convert(ctx, doc)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	h := w.Header()
	h.Set("Content-Type", res.ContentType)
	h.Set("Content-Disposition", horosafe.ContentDisposition(res.Filename))
	h.Set("Content-Length", strconv.Itoa(len(res.Data)))
	h.Set("X-Pages-Total", strconv.Itoa(res.Pages))
	h.Set("X-Pages-Converted", strconv.Itoa(res.PagesConverted))
	w.WriteHeader(http.StatusOK)
	w.Write(res.Data)
}

// readUpload returns the "file" part of a multipart request. A request
// without that part, or that is not multipart at all, yields (nil, nil) and
// is rejected by the converter's own validation.
func (s *Server) readUpload(r *http.Request) (*convert.UploadedDocument, error) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return nil, convert.TooLarge(s.opts.MaxUpload)
		}
		kit.Logger(r.Context(), s.opts.Logger).Debug("multipart parse", "error", err)
		return nil, nil
	}
	defer r.MultipartForm.RemoveAll()

	file, hdr, err := r.FormFile("file")
	if err != nil {
		return nil, nil
	}
	defer file.Close()

	data, err := horosafe.LimitedReadAll(file, s.opts.MaxUpload)
	if err != nil {
		if errors.Is(err, horosafe.ErrTooLarge) {
			return nil, convert.TooLarge(s.opts.MaxUpload)
		}
		return nil, err
	}
	return &convert.UploadedDocument{Filename: horosafe.BaseName(hdr.Filename), Data: data}, nil
}

// fail maps converter errors to status codes: validation → 400, anything
// else → 500 with the conversion detail.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	var verr *convert.ValidationError
	if errors.As(err, &verr) {
		writeError(w, http.StatusBadRequest, verr.Message)
		return
	}
	kit.Logger(r.Context(), s.opts.Logger).Error("convert request failed", "error", err)
	writeError(w, http.StatusInternalServerError, "Error en la conversión: "+err.Error())
}
