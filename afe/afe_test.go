package afe

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/periph/conn/i2c/i2ctest"

	"github.com/cgxeiji/afe4400/i2cbus"
)

// recorder records every Perform call and fails the one numbered failAt
// (1-based, 0 never fails).
type recorder struct {
	calls  [][]i2cbus.Tx
	failAt int
	read   []byte
}

var errNACK = errors.New("nack")

func (r *recorder) Buses() ([]string, error) { return []string{"I2C1"}, nil }

func (r *recorder) Perform(bus string, addr uint16, txs ...i2cbus.Tx) ([][]byte, error) {
	r.calls = append(r.calls, txs)
	if len(r.calls) == r.failAt {
		return nil, &i2cbus.Error{Bus: bus, Addr: addr, Tx: txs[0], Err: errNACK}
	}
	out := make([][]byte, len(txs))
	for i, tx := range txs {
		if tx.IsRead() {
			out[i] = append([]byte(nil), r.read...)
		}
	}
	return out, nil
}

func TestDecode(t *testing.T) {
	for _, tc := range []struct {
		name string
		b    []byte
		want int32
	}{
		{"zero", []byte{0x00, 0x00, 0x00, 0x00}, 0},
		{"low", []byte{0xff, 0x00, 0x10, 0x20}, 4128},
		{"negative-high", []byte{0xff, 0xff, 0x00, 0x00}, -65536},
		{"minus-one", []byte{0x00, 0xff, 0xff, 0xff}, -1},
		{"max", []byte{0x00, 0x7f, 0xff, 0xff}, 0x7fffff},
		{"min", []byte{0x00, 0x80, 0x00, 0x00}, -0x800000},
		{"discard-ignored", []byte{0xaa, 0x01, 0x02, 0x03}, 0x010203},
		{"extra-bytes", []byte{0x00, 0x00, 0x00, 0x07, 0x99}, 7},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Decode(tc.b)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestDecodeFormula(t *testing.T) {
	for d1 := 0; d1 < 256; d1 += 7 {
		for d2 := 0; d2 < 256; d2 += 13 {
			for d3 := 0; d3 < 256; d3 += 17 {
				b := []byte{0xff, byte(d1), byte(d2), byte(d3)}
				want := int32(int8(d1))<<16 | int32(d2&0xff)<<8 | int32(d3&0xff)
				got, err := Decode(b)
				require.NoError(t, err)
				require.Equal(t, want, got, "% x", b)
			}
		}
	}
}

func TestDecodeShort(t *testing.T) {
	_, err := Decode([]byte{0x00, 0x01, 0x02})
	require.Error(t, err)
	assert.True(t, errors.Is(err, i2cbus.ErrShortRead))
}

func TestProgram(t *testing.T) {
	p := Program()
	require.Len(t, p, 49)

	for i, w := range p[:48] {
		assert.Equal(t, byte(i+1), w.Reg, "write #%d", i+1)
	}
	assert.Equal(t, RegWrite{Reg: Control0, Val: SPIRead}, p[48])
	assert.Equal(t, []byte{SPISelect, 0x00, 0x00, 0x00, 0x01}, p[48].Tx().Bytes())
	assert.Equal(t, []byte{SPISelect, LEDCntrl, 0x01, 0x14, 0x29}, p[LEDCntrl-1].Tx().Bytes())

	// callers cannot alter the program.
	p[0].Val = 0xdead
	assert.Equal(t, uint32(0x0017D4), Program()[0].Val)
}

func TestApply(t *testing.T) {
	var r recorder
	require.NoError(t, Apply(&r, "I2C1", Addr))

	want := Program()
	require.Len(t, r.calls, len(want))
	for i, txs := range r.calls {
		require.Len(t, txs, 1)
		assert.Equal(t, want[i].Tx(), txs[0])
	}
}

func TestApplyStopsOnFailure(t *testing.T) {
	for _, k := range []int{1, 2, 30, 48, 49} {
		r := recorder{failAt: k}
		err := Apply(&r, "I2C1", Addr)
		require.Error(t, err)
		assert.True(t, errors.Is(err, errNACK))

		var berr *i2cbus.Error
		assert.True(t, errors.As(err, &berr))
		assert.Len(t, r.calls, k, "writes after #%d must not be issued", k)
	}
}

func TestDeviceRead(t *testing.T) {
	r := recorder{read: []byte{0xff, 0x00, 0x10, 0x20}}
	d := New(&r, "I2C1", 0)
	assert.Equal(t, uint16(0x28), d.Addr())

	v, err := d.Read(LED2ALED2VAL)
	require.NoError(t, err)
	assert.Equal(t, int32(4128), v)

	require.Len(t, r.calls, 2)
	assert.Equal(t, []i2cbus.Tx{i2cbus.Write(SPISelect, LED2ALED2VAL, 0xff, 0xff, 0xff)}, r.calls[0])
	assert.Equal(t, []i2cbus.Tx{i2cbus.Read(4)}, r.calls[1])
}

func TestDeviceReadErrors(t *testing.T) {
	for _, k := range []int{1, 2} {
		r := recorder{failAt: k, read: []byte{0, 0, 0, 0}}
		_, err := New(&r, "I2C1", Addr).Read(LED1ALED1VAL)
		require.Error(t, err)
		assert.True(t, errors.Is(err, errNACK))
		assert.Len(t, r.calls, k)
	}

	r := recorder{read: []byte{0, 0}}
	_, err := New(&r, "I2C1", Addr).Read(LED1ALED1VAL)
	assert.True(t, errors.Is(err, i2cbus.ErrShortRead))
}

func TestDevicePlayback(t *testing.T) {
	var ops []i2ctest.IO
	for _, w := range Program() {
		ops = append(ops, i2ctest.IO{Addr: Addr, W: w.Tx().Bytes()})
	}
	ops = append(ops,
		i2ctest.IO{Addr: Addr, W: []byte{SPISelect, LED1ALED1VAL, 0xff, 0xff, 0xff}},
		i2ctest.IO{Addr: Addr, R: []byte{0x2f, 0xff, 0xff, 0xd3}},
	)
	pb := &i2ctest.Playback{Ops: ops}
	m := i2cbus.NewPeriphBus("I2C1", pb)

	d := New(m, "I2C1", Addr)
	require.NoError(t, d.Configure())

	v, err := d.Read(LED1ALED1VAL)
	require.NoError(t, err)
	assert.Equal(t, int32(-45), v)

	require.NoError(t, m.Close())
}
