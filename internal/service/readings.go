package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"github.com/ANIKETSHETTY47/sensor-readings-api/internal/cloud"
	"github.com/ANIKETSHETTY47/sensor-readings-api/internal/domain"
	"github.com/ANIKETSHETTY47/sensor-readings-api/internal/validate"
)

const MsgInvalidJSON = "Dados JSON inválidos"

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

type ReadingService struct {
	store    ReadingStore
	archiver UploadArchiver
	notifier UploadNotifier
	ledger   UploadRecorder
}

func NewReadingService(store ReadingStore, archiver UploadArchiver, notifier UploadNotifier, ledger UploadRecorder) *ReadingService {
	return &ReadingService{store: store, archiver: archiver, notifier: notifier, ledger: ledger}
}

// Create decodes one reading in wire format, validates and stores it.
func (s *ReadingService) Create(ctx context.Context, body []byte) (domain.Reading, error) {
	payload, err := decodeObject(body)
	if err != nil {
		return domain.Reading{}, domain.Malformed(MsgInvalidJSON)
	}

	rd, fe := validate.Reading(validate.FromWire(payload))
	if fe != nil {
		return domain.Reading{}, fe
	}
	if err := s.store.InsertReading(ctx, &rd); err != nil {
		return domain.Reading{}, err
	}
	return rd, nil
}

// FromMQTT ingests a reading published on the broker. The payload uses
// the same wire format as the HTTP body.
func (s *ReadingService) FromMQTT(ctx context.Context, topic string, payload []byte) error {
	rd, err := s.Create(ctx, payload)
	if err != nil {
		return fmt.Errorf("topic %s: %w", topic, err)
	}
	log.Debug().Str("topic", topic).Int64("id", rd.ID).Str("equipment_id", rd.EquipmentID).Msg("reading ingested")
	return nil
}

func decodeObject(body []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var payload map[string]any
	if err := dec.Decode(&payload); err != nil {
		return nil, err
	}
	if payload == nil {
		return nil, errors.New("body is not a JSON object")
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("trailing data after JSON object")
	}
	return payload, nil
}

// UploadResult is the outcome of a bulk upload. Errors holds one entry
// per rejected row, in file order.
type UploadResult struct {
	Accepted int
	Errors   []string
}

// Upload parses a CSV file with an equipmentId,timestamp,value header.
// Rows are validated independently; every valid row is stored in a
// single transaction after the whole file has been scanned.
func (s *ReadingService) Upload(ctx context.Context, filename string, data []byte) (UploadResult, error) {
	if !strings.HasSuffix(filename, ".csv") {
		return UploadResult{}, domain.Malformed("not a CSV file")
	}

	accepted, rowErrors, err := parseCSV(data)
	if err != nil {
		return UploadResult{}, err
	}

	if err := s.store.InsertReadings(ctx, accepted); err != nil {
		return UploadResult{}, fmt.Errorf("store %d uploaded readings: %w", len(accepted), err)
	}

	res := UploadResult{Accepted: len(accepted), Errors: rowErrors}
	s.afterUpload(ctx, filename, data, res)
	return res, nil
}

func parseCSV(data []byte) ([]domain.Reading, []string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		return nil, nil, domain.Malformed("file is not valid UTF-8 text")
	}

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, domain.Malformed(fmt.Sprintf("invalid CSV: %v", err))
	}

	var (
		accepted  []domain.Reading
		rowErrors []string
	)
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, domain.Malformed(fmt.Sprintf("invalid CSV: %v", err))
		}
		line := endLine(r, record)

		row := make(map[string]any, len(header))
		for i, name := range header {
			if i < len(record) {
				row[name] = record[i]
			}
		}
		rec := validate.FromWire(row)

		if raw, ok := rec[validate.FieldValue].(string); ok {
			f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
			if err != nil {
				rowErrors = append(rowErrors, fmt.Sprintf("Row %d: value: could not convert %q to a number", line, raw))
				continue
			}
			rec[validate.FieldValue] = f
		}

		rd, fe := validate.Reading(rec)
		if fe != nil {
			rowErrors = append(rowErrors, fmt.Sprintf("Row %d: %s", line, fe.Error()))
			continue
		}
		accepted = append(accepted, rd)
	}
	return accepted, rowErrors, nil
}

// endLine is the line a record ends on; quoted fields may span lines.
func endLine(r *csv.Reader, record []string) int {
	last := len(record) - 1
	line, _ := r.FieldPos(last)
	return line + strings.Count(record[last], "\n")
}

// afterUpload archives the raw file, records the upload and reports
// rejected rows. Failures are logged; the upload result stands.
func (s *ReadingService) afterUpload(ctx context.Context, filename string, data []byte, res UploadResult) {
	report := cloud.UploadReport{Filename: filename, Accepted: res.Accepted, Errors: res.Errors}

	if s.archiver != nil {
		key, err := s.archiver.ArchiveUpload(ctx, filename, data)
		if err != nil {
			log.Warn().Err(err).Str("filename", filename).Msg("upload archive failed")
		} else {
			report.ArchiveKey = key
		}
	}

	if s.ledger != nil {
		if err := s.ledger.RecordUpload(ctx, report); err != nil {
			log.Warn().Err(err).Str("filename", filename).Msg("upload record failed")
		}
	}

	if s.notifier != nil && len(res.Errors) > 0 {
		if err := s.notifier.NotifyUploadReport(ctx, report); err != nil {
			log.Warn().Err(err).Str("filename", filename).Msg("upload report failed")
		}
	}
}
