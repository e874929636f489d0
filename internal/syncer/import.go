package syncer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lichlamviec/shift-scheduler/backend/internal/sheets"
)

var (
	errMalformed = errors.New("malformed response")
	errInvalid   = errors.New("invalid payload")
)

// Importer replaces the local state with the remote one.
type Importer struct {
	store  Store
	client *Client
	logger *slog.Logger
}

func NewImporter(store Store, client *Client, logger *slog.Logger) *Importer {
	return &Importer{store: store, client: client, logger: logger}
}

// Import fetches the remote dataset and, when it passes validation and the
// safety gate, swaps it in atomically. Any failure leaves local state as it
// was.
func (im *Importer) Import(ctx context.Context, url string) Result {
	if url == "" {
		return failed(KindConfigurationMissing, msgConfigurationMissing)
	}

	im.logger.Info("đang tải dữ liệu từ Google Sheets")
	body, err := im.client.Pull(ctx, url)
	if err != nil {
		im.logger.Error("không kết nối được Google Sheets", "error", err)
		return failed(KindConnectivityFailure, msgConnectivityFailure+err.Error())
	}

	ds, err := decodeDataset(body)
	switch {
	case errors.Is(err, errMalformed):
		im.logger.Error("lỗi kết nối Google Sheets: "+msgMalformedResponse, "excerpt", excerpt(string(body), exportExcerptLen))
		res := failed(KindMalformedResponse, msgMalformedResponse)
		res.Details = excerpt(string(body), importExcerptLen)
		return res
	case err != nil:
		res := failed(KindInvalidPayload, msgInvalidPayload)
		res.Details = err.Error()
		return res
	}

	snap, hasAdmin, err := fromDataset(ds)
	if err != nil {
		res := failed(KindInvalidPayload, msgInvalidPayload)
		res.Details = err.Error()
		return res
	}

	remoteEmployees := len(snap.Employees)
	remoteSchedules := len(snap.Schedules)
	im.logger.Info("đã nhận dữ liệu từ bảng tính", "employees", remoteEmployees, "schedules", remoteSchedules)

	localEmployees, err := im.store.CountEmployees()
	if err != nil {
		return failed(KindTransactionFailure, msgTransactionFailure+err.Error())
	}
	if remoteEmployees == 0 && localEmployees > 0 {
		im.logger.Warn(msgOverwriteBlocked, "local_employees", localEmployees)
		return failed(KindDestructiveOverwriteBlocked, msgOverwriteBlocked)
	}

	if !hasAdmin {
		im.logger.Info("bảng tính không có Admin, thêm Admin mặc định")
		snap.Employees = append(snap.Employees, im.store.DefaultAdmin())
	}

	if err := im.store.ReplaceAll(snap); err != nil {
		im.logger.Error("ghi dữ liệu đồng bộ thất bại, dữ liệu cục bộ giữ nguyên", "error", err)
		return failed(KindTransactionFailure, msgTransactionFailure+err.Error())
	}

	if _, err := im.store.SeedTasks(); err != nil {
		im.logger.Warn("không bổ sung được nhiệm vụ mặc định", "error", err)
	}

	im.logger.Info("đã tải dữ liệu từ Google Sheets", "employees", remoteEmployees, "schedules", remoteSchedules)
	return Result{
		Success:   true,
		Kind:      KindOK,
		Message:   "Đồng bộ dữ liệu thành công",
		Employees: remoteEmployees,
		Schedules: remoteSchedules,
	}
}

// decodeDataset parses the endpoint body. The employees collection is
// mandatory; every other collection may be missing or null, but a present
// collection must be a list of objects.
func decodeDataset(body []byte) (sheets.Dataset, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", errMalformed, err)
	}

	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: phản hồi không phải một đối tượng", errInvalid)
	}
	if obj[sheets.Employees.Field] == nil {
		if remote, ok := obj["error"].(string); ok && remote != "" {
			return nil, fmt.Errorf("%w: %s", errInvalid, remote)
		}
		return nil, fmt.Errorf("%w: thiếu %s", errInvalid, sheets.Employees.Field)
	}

	ds := sheets.Dataset{}
	for _, t := range sheets.Tables {
		v, present := obj[t.Field]
		if !present || v == nil {
			continue
		}
		list, ok := v.([]any)
		if !ok {
			return nil, fmt.Errorf("%w: %s không phải danh sách", errInvalid, t.Field)
		}
		records := make([]sheets.Record, 0, len(list))
		for i, item := range list {
			m, ok := item.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("%w: %s dòng %d không phải đối tượng", errInvalid, t.Field, i+1)
			}
			records = append(records, sheets.Record(m))
		}
		ds[t.Field] = records
	}

	return ds, nil
}
