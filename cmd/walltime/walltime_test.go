package walltime

import (
	"bytes"
	"testing"

	"github.com/andreyvit/diff"
	"github.com/stretchr/testify/assert"
)

func TestConvert(t *testing.T) {
	var out bytes.Buffer
	err := Convert([]string{"90", "1:30:00", "2-12"}, false, &out)
	assert.NoError(t, err)

	expect := "90       5400    00-01:30:00\n" +
		"1:30:00  5400    00-01:30:00\n" +
		"2-12     216000  02-12:00:00\n"
	if out.String() != expect {
		t.Errorf("unexpected output:\n%v", diff.LineDiff(expect, out.String()))
	}
}

func TestConvertSeconds(t *testing.T) {
	var out bytes.Buffer
	assert.NoError(t, Convert([]string{"61"}, true, &out))
	assert.Equal(t, "61  61  00-00:01:01\n", out.String())
}

func TestConvertMalformed(t *testing.T) {
	c := NewCommand()
	c.SetOut(&bytes.Buffer{})
	c.SetArgs([]string{"1:2:3:4"})
	assert.Error(t, c.Execute())
}
