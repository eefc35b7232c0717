package receipt

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
)

// setCORSHeaders sets CORS headers on a response
func setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.Header().Set("Access-Control-Max-Age", "3600")
}

// writeJSON writes v with the given status code
func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

func writeDescription(w http.ResponseWriter, code int, description string) {
	writeJSON(w, code, map[string]string{"description": description})
}

// handleProcessReceipt scores a submitted receipt and returns its identifier
func (s *Server) handleProcessReceipt(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxReceiptBytes))
	if err != nil {
		slog.Warn("Error reading receipt body", "error", err)
		writeDescription(w, http.StatusBadRequest, "The receipt is invalid")
		return
	}

	rcpt, err := s.validator.ParseReceipt(data)
	if err != nil {
		slog.Info("Rejected receipt", "error", err)
		writeDescription(w, http.StatusBadRequest, "The receipt is invalid")
		return
	}

	id, err := s.service.ProcessReceipt(rcpt)
	if err != nil {
		slog.Error("Error processing receipt", "retailer", rcpt.Retailer, "error", err)
		writeDescription(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"id": id})
}

// handleGetPoints returns the points awarded to a receipt
func (s *Server) handleGetPoints(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	points, err := s.service.GetPoints(id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			writeDescription(w, http.StatusNotFound, "No receipt found for that ID")
			return
		}
		slog.Error("Error getting points", "id", id, "error", err)
		writeDescription(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"points": points})
}
