package wire

import "testing"

func TestReportIDString(t *testing.T) {
	tests := []struct {
		id   ReportID
		want string
	}{
		{ReportLoopback, "LOOPBACK"},
		{ReportDigital, "DIGITAL"},
		{ReportAnalog, "ANALOG"},
		{ReportFirmwareVersion, "FIRMWARE_VERSION"},
		{ReportIAmHere, "I_AM_HERE"},
		{ReportServoUnavailable, "SERVO_UNAVAILABLE"},
		{ReportI2CTooFewBytes, "I2C_TOO_FEW_BYTES"},
		{ReportI2CTooManyBytes, "I2C_TOO_MANY_BYTES"},
		{ReportI2CRead, "I2C_READ"},
		{ReportSonarDistance, "SONAR_DISTANCE"},
		{ReportDHT, "DHT"},
		{ReportDebugPrint, "DEBUG_PRINT"},
		{ReportID(1), "UNKNOWN"},
	}

	for _, tt := range tests {
		if got := tt.id.String(); got != tt.want {
			t.Errorf("ReportID(%d).String() = %q, want %q", tt.id, got, tt.want)
		}
	}
}
