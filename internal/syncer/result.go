package syncer

// Kind classifies the outcome of an import.
type Kind string

const (
	KindOK                          Kind = "ok"
	KindConfigurationMissing        Kind = "configuration_missing"
	KindMalformedResponse           Kind = "malformed_response"
	KindInvalidPayload              Kind = "invalid_payload"
	KindDestructiveOverwriteBlocked Kind = "destructive_overwrite_blocked"
	KindTransactionFailure          Kind = "transaction_failure"
	KindConnectivityFailure         Kind = "connectivity_failure"
)

const (
	msgConfigurationMissing = "Chưa cấu hình URL Google Sheets"
	msgMalformedResponse    = "URL trả về không phải dữ liệu JSON hợp lệ. Hãy kiểm tra lại bước Triển khai (Deploy) trong Apps Script."
	msgInvalidPayload       = "Dữ liệu từ Google Sheets không hợp lệ hoặc thiếu bảng Nhan_Vien"
	msgOverwriteBlocked     = "Dữ liệu nhân viên từ Google Sheets trống. Hệ thống đã chặn việc xóa dữ liệu cục bộ để bảo vệ an toàn."
	msgConnectivityFailure  = "Lỗi kết nối máy chủ Google: "
	msgTransactionFailure   = "Lỗi khi ghi dữ liệu đồng bộ: "
)

// Result is what an import reports back. Only a successful import changes
// local state.
type Result struct {
	Success   bool   `json:"success"`
	Kind      Kind   `json:"kind"`
	Message   string `json:"message,omitempty"`
	Details   string `json:"details,omitempty"`
	Employees int    `json:"employees"`
	Schedules int    `json:"schedules"`
}

func failed(kind Kind, msg string) Result {
	return Result{Kind: kind, Message: msg}
}
