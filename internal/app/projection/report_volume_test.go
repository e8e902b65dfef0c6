package projection

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReportVolumeCounts(t *testing.T) {
	v := NewReportVolume()

	v.Apply("report.created", "s1")
	v.Apply("report.created", "s1")
	v.Apply("report.created", "s2")

	assert.EqualValues(t, 2, v.Count("s1"))
	assert.EqualValues(t, 1, v.Count("s2"))
	assert.EqualValues(t, 0, v.Count("missing"))
}

func TestReportVolumeDeleteFloorsAtZero(t *testing.T) {
	v := NewReportVolume()

	v.Apply("report.created", "s1")
	v.Apply("report.deleted", "s1")
	v.Apply("report.deleted", "s1")

	assert.EqualValues(t, 0, v.Count("s1"))
	assert.Empty(t, v.Top(10))
}

func TestReportVolumeTopOrdersByVolumeThenID(t *testing.T) {
	v := NewReportVolume()

	for i := 0; i < 3; i++ {
		v.Apply("report.created", "b")
	}
	v.Apply("report.created", "a")
	v.Apply("report.created", "c")

	top := v.Top(2)
	assert.Equal(t, []ShortCount{
		{ShortID: "b", Reports: 3},
		{ShortID: "a", Reports: 1},
	}, top)
}

func TestReportVolumeIgnoresUnknownEventsAndEmptyIDs(t *testing.T) {
	v := NewReportVolume()

	v.Apply("report.created", "")
	v.Apply("short.created", "s1")

	assert.Empty(t, v.Top(0))
}
