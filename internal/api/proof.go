package api

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/adaora/maison/internal/proof"
)

// multipart overhead allowance on top of the file size limit.
const maxProofBodySize = proof.MaxSize + (1 << 20)

func handleUploadProof(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxProofBodySize)
		defer r.Body.Close()

		if err := r.ParseMultipartForm(proof.MaxSize); err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				httpError(w, http.StatusBadRequest, "invalid_request_error",
					"file exceeds the %d byte (5 MiB) limit", proof.MaxSize)
				return
			}
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid multipart form: %v", err)
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "%v", proof.ErrMissingFile)
			return
		}
		defer file.Close()

		if err := proof.Validate(header.Header.Get("Content-Type"), header.Size); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "%v", err)
			return
		}

		// Confirm the order exists before any blob write so a bad id
		// cannot leave an orphaned file.
		id := chi.URLParam(r, "id")
		current, err := deps.Orders.Get(r.Context(), id)
		if err != nil {
			writeDomainError(w, err, "proof upload")
			return
		}

		data, err := io.ReadAll(file)
		if err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "reading upload: %v", err)
			return
		}

		key := proof.StorageKey(current.ID, time.Now().UTC(), header.Filename)
		url, err := deps.Blobs.Put(r.Context(), key, header.Header.Get("Content-Type"), data)
		if err != nil {
			writeDomainError(w, err, "proof store")
			return
		}

		o, err := deps.Orders.AttachProof(r.Context(), id, url, r.FormValue("reference"))
		if err != nil {
			// The blob is stored but the order was not updated; this must
			// surface as a failure, not a partial success.
			writeDomainError(w, err, "proof attach")
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"url":    url,
			"status": o.Status,
		})
	}
}
