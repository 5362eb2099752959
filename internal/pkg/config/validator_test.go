package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidateCronSchedule(t *testing.T) {
	valid := []string{"0 0 * * *", "30 5 * * *", "0 */6 * * *", "30 9 * * 1-5", "15,45 */2 * * 1,3,5"}
	for _, s := range valid {
		assert.NoError(t, ValidateCronSchedule(s), s)
	}

	invalid := []string{"", "0 0", "0 0 * * * * *", "60 0 * * *", "0 24 * * *", "0 0 * 13 *", "invalid format"}
	for _, s := range invalid {
		err := ValidateCronSchedule(s)
		if assert.Error(t, err, s) {
			assert.Contains(t, err.Error(), "invalid cron schedule")
		}
	}
}

func TestValidateTimezone(t *testing.T) {
	for _, tz := range []string{"UTC", "Asia/Tokyo", "America/New_York"} {
		assert.NoError(t, ValidateTimezone(tz), tz)
	}
	for _, tz := range []string{"", "Mars/Olympus", "JST+9"} {
		assert.Error(t, ValidateTimezone(tz), tz)
	}
}

func TestValidateDate(t *testing.T) {
	assert.NoError(t, ValidateDate("2025-04-01"))
	for _, d := range []string{"", "2025-4-1", "2025-02-30", "01/04/2025"} {
		assert.Error(t, ValidateDate(d), d)
	}
}

func TestValidateHTTPURL(t *testing.T) {
	assert.NoError(t, ValidateHTTPURL("http://pushgateway:9091"))
	assert.NoError(t, ValidateHTTPURL("https://newsapi.org/v2"))
	for _, u := range []string{"", "pushgateway:9091", "ftp://host", "http://", "://bad"} {
		assert.Error(t, ValidateHTTPURL(u), u)
	}
}

func TestValidateDuration(t *testing.T) {
	tests := []struct {
		name    string
		d       time.Duration
		min     time.Duration
		max     time.Duration
		wantErr bool
	}{
		{"within range", 5 * time.Second, time.Second, time.Minute, false},
		{"at min", time.Second, time.Second, time.Minute, false},
		{"at max", time.Minute, time.Second, time.Minute, false},
		{"below min", 500 * time.Millisecond, time.Second, time.Minute, true},
		{"above max", 2 * time.Minute, time.Second, time.Minute, true},
		{"inverted range", 5 * time.Second, time.Minute, time.Second, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDuration(tt.d, tt.min, tt.max)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateIntRange(t *testing.T) {
	assert.NoError(t, ValidateIntRange(5, 1, 10))
	assert.NoError(t, ValidateIntRange(1, 1, 1))
	assert.Error(t, ValidateIntRange(0, 1, 10))
	assert.Error(t, ValidateIntRange(11, 1, 10))
	assert.Error(t, ValidateIntRange(5, 10, 1))
}

func TestValidatePositiveDuration(t *testing.T) {
	assert.NoError(t, ValidatePositiveDuration(time.Nanosecond))
	assert.Error(t, ValidatePositiveDuration(0))
	assert.Error(t, ValidatePositiveDuration(-time.Second))
}
