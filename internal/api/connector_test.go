package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestConnector(driftPercent float64) *Connector {
	return NewConnector("ws://unused", "BTCUSDT", driftPercent, zap.NewNop().Sugar())
}

func TestCheckDrift_FirstPriceEstablishesBaseline(t *testing.T) {
	c := newTestConnector(3.0)

	c.checkDrift(100)
	select {
	case <-c.TriggerChannel():
		t.Fatal("baseline establishment must not trigger a rescan")
	default:
	}

	// 小幅波动不触发
	c.checkDrift(101)
	c.checkDrift(99)
	select {
	case <-c.TriggerChannel():
		t.Fatal("drift below threshold must not trigger")
	default:
	}
}

func TestCheckDrift_TriggersOnThreshold(t *testing.T) {
	c := newTestConnector(3.0)

	c.checkDrift(100)
	c.checkDrift(103.5) // +3.5%

	select {
	case price := <-c.TriggerChannel():
		assert.Equal(t, 103.5, price)
	default:
		t.Fatal("expected a rescan trigger")
	}
}

func TestCheckDrift_TriggersOnDownMove(t *testing.T) {
	c := newTestConnector(3.0)

	c.checkDrift(100)
	c.checkDrift(96) // -4%

	select {
	case price := <-c.TriggerChannel():
		assert.Equal(t, 96.0, price)
	default:
		t.Fatal("expected a rescan trigger on downside drift")
	}
}

func TestCheckDrift_RebasesAfterTrigger(t *testing.T) {
	c := newTestConnector(3.0)

	c.checkDrift(100)
	c.checkDrift(104)
	require.Len(t, c.triggerChan, 1)
	<-c.TriggerChannel()

	// 触发后基线移到 104：再回到 103 不足 3%
	c.checkDrift(103)
	assert.Empty(t, c.triggerChan)
}

func TestCheckDrift_DropsWhenTriggerPending(t *testing.T) {
	c := newTestConnector(1.0)

	c.checkDrift(100)
	c.checkDrift(102) // 触发，占住缓冲
	c.checkDrift(105) // 通道满，丢弃而不是阻塞

	assert.Len(t, c.triggerChan, 1)
}

func TestResetBaseline(t *testing.T) {
	c := newTestConnector(3.0)

	c.checkDrift(100)
	c.ResetBaseline(0)

	// 归零后下一条行情重新建立基线，不触发
	c.checkDrift(200)
	assert.Empty(t, c.triggerChan)
}
