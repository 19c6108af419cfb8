package wire

import "testing"

func TestCommandIDString(t *testing.T) {
	tests := []struct {
		id   CommandID
		want string
	}{
		{CmdLoopback, "LOOPBACK"},
		{CmdSetPinMode, "SET_PIN_MODE"},
		{CmdDigitalWrite, "DIGITAL_WRITE"},
		{CmdAnalogWrite, "ANALOG_WRITE"},
		{CmdModifyReporting, "MODIFY_REPORTING"},
		{CmdFirmwareVersion, "FIRMWARE_VERSION"},
		{CmdAreYouThere, "ARE_YOU_THERE"},
		{CmdServoAttach, "SERVO_ATTACH"},
		{CmdServoWrite, "SERVO_WRITE"},
		{CmdServoDetach, "SERVO_DETACH"},
		{CmdI2CBegin, "I2C_BEGIN"},
		{CmdI2CRead, "I2C_READ"},
		{CmdI2CWrite, "I2C_WRITE"},
		{CmdSonarNew, "SONAR_NEW"},
		{CmdDHTNew, "DHT_NEW"},
		{CmdStopAllReports, "STOP_ALL_REPORTS"},
		{CmdAnalogScanInterval, "ANALOG_SCAN_INTERVAL"},
		{CmdEnableAllReports, "ENABLE_ALL_REPORTS"},
		{CmdReset, "RESET"},
		{CommandID(200), "UNKNOWN"},
	}

	for _, tt := range tests {
		if got := tt.id.String(); got != tt.want {
			t.Errorf("CommandID(%d).String() = %q, want %q", tt.id, got, tt.want)
		}
	}
}

func TestPinModeString(t *testing.T) {
	tests := []struct {
		mode PinMode
		want string
	}{
		{PinModeDigitalInput, "DIGITAL_INPUT"},
		{PinModeDigitalOutput, "DIGITAL_OUTPUT"},
		{PinModeInputPullup, "INPUT_PULLUP"},
		{PinModeAnalogInput, "ANALOG_INPUT"},
		{PinModeNotSet, "NOT_SET"},
		{PinMode(42), "UNKNOWN"},
	}

	for _, tt := range tests {
		if got := tt.mode.String(); got != tt.want {
			t.Errorf("PinMode(%d).String() = %q, want %q", tt.mode, got, tt.want)
		}
	}
}

func TestReportingChangeString(t *testing.T) {
	tests := []struct {
		change ReportingChange
		want   string
	}{
		{ReportingDisableAll, "DISABLE_ALL"},
		{ReportingAnalogEnable, "ANALOG_ENABLE"},
		{ReportingDigitalEnable, "DIGITAL_ENABLE"},
		{ReportingAnalogDisable, "ANALOG_DISABLE"},
		{ReportingDigitalDisable, "DIGITAL_DISABLE"},
		{ReportingChange(9), "UNKNOWN"},
	}

	for _, tt := range tests {
		if got := tt.change.String(); got != tt.want {
			t.Errorf("ReportingChange(%d).String() = %q, want %q", tt.change, got, tt.want)
		}
	}
}
