package server

import (
	"bytes"
	"io"
	"log"
	"net/http"
	"time"
)

// proxyBodyLimit caps the request body accepted by the proxy endpoint.
const proxyBodyLimit = 64 << 10

// handleProxyResolve forwards a resolution request to the configured
// upstream resolver, injecting the service secret so browser clients
// never hold the credential. The upstream response is relayed as-is.
func (s *Server) handleProxyResolve(w http.ResponseWriter, r *http.Request) {
	if s.cfg.UpstreamURL == "" {
		s.errorResponse(w, http.StatusServiceUnavailable, "proxy upstream not configured")
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, proxyBodyLimit))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	upstreamReq, err := http.NewRequestWithContext(r.Context(), http.MethodPost,
		s.cfg.UpstreamURL+"/resolve/book", bytes.NewReader(body))
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "failed to build upstream request")
		return
	}
	upstreamReq.Header.Set("Content-Type", "application/json")
	if s.cfg.ServiceSecret != "" {
		upstreamReq.Header.Set("Authorization", "Bearer "+s.cfg.ServiceSecret)
	}

	client := &http.Client{Timeout: 60 * time.Second}
	resp, err := client.Do(upstreamReq)
	if err != nil {
		upstreamErr := &ErrUpstream{Err: err}
		log.Printf("[PROXY] %v", upstreamErr)
		s.errorResponse(w, HTTPStatus(upstreamErr), "upstream resolver unreachable")
		return
	}
	defer resp.Body.Close()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.StatusCode)
	if _, err := io.Copy(w, resp.Body); err != nil {
		log.Printf("[PROXY] Failed to relay upstream response: %v", err)
	}
}
