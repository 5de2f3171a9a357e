package rig

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessageWithField(t *testing.T) {
	err := newChainErr("property", "no property was selected")
	assert.Equal(t, "rig: chain: property: no property was selected", err.Error())
}

func TestErrorMessageWithoutField(t *testing.T) {
	err := newAdmissionErr("division by zero")
	assert.Equal(t, "rig: admission: division by zero", err.Error())
}

func TestNewCommitErr(t *testing.T) {
	err := newCommitErr("timing", "ms and rate are mutually exclusive")
	assert.Equal(t, "commit", err.Stage)
	assert.Equal(t, "timing", err.Field)
}
