package metrics

import (
	"fmt"
	"net/http"
	"sync/atomic"
)

var (
	tokenizeRequests   atomic.Int64
	detokenizeRequests atomic.Int64
	tokensMinted       atomic.Int64
	fieldsRestored     atomic.Int64
	streamEvents       atomic.Int64
	vaultSizeMetric    atomic.Int64
)

func Init() {}

func AddTokenizeRequest(minted int) {
	tokenizeRequests.Add(1)
	tokensMinted.Add(int64(minted))
}

func AddDetokenizeRequest(restored int) {
	detokenizeRequests.Add(1)
	fieldsRestored.Add(int64(restored))
}

func AddStreamEvent(minted int) {
	streamEvents.Add(1)
	tokensMinted.Add(int64(minted))
}

func ObserveVaultSize(size int64) {
	vaultSizeMetric.Store(size)
}

func WritePrometheus(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	fmt.Fprintf(w, "# HELP tokenweave_vault_tokenize_requests_total Number of tokenize API requests served.\n")
	fmt.Fprintf(w, "# TYPE tokenweave_vault_tokenize_requests_total counter\n")
	fmt.Fprintf(w, "tokenweave_vault_tokenize_requests_total %d\n", tokenizeRequests.Load())

	fmt.Fprintf(w, "# HELP tokenweave_vault_detokenize_requests_total Number of detokenize API requests served.\n")
	fmt.Fprintf(w, "# TYPE tokenweave_vault_detokenize_requests_total counter\n")
	fmt.Fprintf(w, "tokenweave_vault_detokenize_requests_total %d\n", detokenizeRequests.Load())

	fmt.Fprintf(w, "# HELP tokenweave_vault_tokens_minted_total Number of new tokens minted into the vault.\n")
	fmt.Fprintf(w, "# TYPE tokenweave_vault_tokens_minted_total counter\n")
	fmt.Fprintf(w, "tokenweave_vault_tokens_minted_total %d\n", tokensMinted.Load())

	fmt.Fprintf(w, "# HELP tokenweave_vault_fields_restored_total Number of fields restored to their original values.\n")
	fmt.Fprintf(w, "# TYPE tokenweave_vault_fields_restored_total counter\n")
	fmt.Fprintf(w, "tokenweave_vault_fields_restored_total %d\n", fieldsRestored.Load())

	fmt.Fprintf(w, "# HELP tokenweave_stream_events_total Number of record events tokenized off the stream.\n")
	fmt.Fprintf(w, "# TYPE tokenweave_stream_events_total counter\n")
	fmt.Fprintf(w, "tokenweave_stream_events_total %d\n", streamEvents.Load())

	fmt.Fprintf(w, "# HELP tokenweave_vault_size Number of active tokens in the vault.\n")
	fmt.Fprintf(w, "# TYPE tokenweave_vault_size gauge\n")
	fmt.Fprintf(w, "tokenweave_vault_size %d\n", vaultSizeMetric.Load())
}
