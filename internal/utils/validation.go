package utils

import (
	"errors"
	"fmt"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/lichlamviec/shift-scheduler/backend/internal/domain"
)

const (
	ClockLayout = "15:04"
	DateLayout  = "2006-01-02"
	MonthLayout = "2006-01"
)

var layoutTags = []struct {
	tag    string
	layout string
	msg    string
}{
	{"clock", ClockLayout, "{0} phải có dạng HH:mm"},
	{"date", DateLayout, "{0} phải có dạng YYYY-MM-DD"},
	{"month", MonthLayout, "{0} phải có dạng YYYY-MM"},
}

// RegisterValidations adds the clock, date and month tags to validate together
// with their Vietnamese messages.
func RegisterValidations(validate *validator.Validate, trans ut.Translator) error {
	for _, lt := range layoutTags {
		layout := lt.layout
		if err := validate.RegisterValidation(lt.tag, func(fl validator.FieldLevel) bool {
			_, err := time.Parse(layout, fl.Field().String())
			return err == nil
		}); err != nil {
			return err
		}

		tag, msg := lt.tag, lt.msg
		if err := validate.RegisterTranslation(tag, trans,
			func(ut ut.Translator) error {
				return ut.Add(tag, msg, true)
			},
			func(ut ut.Translator, fe validator.FieldError) string {
				t, _ := ut.T(tag, fe.Field())
				return t
			},
		); err != nil {
			return err
		}
	}
	return nil
}

func ValidateShiftTime(s *domain.Shift) error {
	if _, err := time.Parse(ClockLayout, s.StartTime); err != nil {
		return fmt.Errorf("giờ bắt đầu của ca %s sai định dạng", s.Name)
	}
	if _, err := time.Parse(ClockLayout, s.EndTime); err != nil {
		return fmt.Errorf("giờ kết thúc của ca %s sai định dạng", s.Name)
	}
	// overnight shifts are allowed, so no ordering check
	return nil
}

func ValidateDateRange(start, end string) error {
	s, err := time.Parse(DateLayout, start)
	if err != nil {
		return errors.New("ngày bắt đầu sai định dạng")
	}
	e, err := time.Parse(DateLayout, end)
	if err != nil {
		return errors.New("ngày kết thúc sai định dạng")
	}
	if e.Before(s) {
		return errors.New("ngày kết thúc không được trước ngày bắt đầu")
	}
	return nil
}

func ValidateAnnouncementWindow(a *domain.Announcement) error {
	start, err := time.Parse(time.RFC3339, a.StartTime)
	if err != nil {
		return errors.New("thời gian bắt đầu thông báo sai định dạng")
	}
	end, err := time.Parse(time.RFC3339, a.EndTime)
	if err != nil {
		return errors.New("thời gian kết thúc thông báo sai định dạng")
	}
	if end.Before(start) {
		return errors.New("thời gian kết thúc không được trước thời gian bắt đầu")
	}
	return nil
}

// WeekStart returns the Monday of the week date falls in.
func WeekStart(date string) (string, error) {
	d, err := time.Parse(DateLayout, date)
	if err != nil {
		return "", err
	}
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset).Format(DateLayout), nil
}

// WeekDates lists the seven dates starting at start.
func WeekDates(start string) ([]string, error) {
	d, err := time.Parse(DateLayout, start)
	if err != nil {
		return nil, err
	}
	dates := make([]string, 7)
	for i := range dates {
		dates[i] = d.AddDate(0, 0, i).Format(DateLayout)
	}
	return dates, nil
}
