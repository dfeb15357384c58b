package core

import (
	"fmt"
	"strings"

	"github.com/nikolaydubina/fpdecimal"
	"github.com/tidwall/btree"
)

// orderNode is one resting order's slot in a price-level queue. The
// location index stores nodes directly, which keeps cancel and in-place
// modification O(1) without scanning the level.
type orderNode struct {
	order *Order
	level *priceLevel
	prev  *orderNode
	next  *orderNode
}

// priceLevel is the FIFO queue of resting orders sharing one exact
// price. Orders leave the queue only by removal; partial fills never
// reorder it.
type priceLevel struct {
	price fpdecimal.Decimal
	head  *orderNode
	tail  *orderNode
	size  int
}

func (pl *priceLevel) append(order *Order) *orderNode {
	node := &orderNode{order: order, level: pl}
	if pl.tail == nil {
		pl.head = node
	} else {
		pl.tail.next = node
		node.prev = pl.tail
	}
	pl.tail = node
	pl.size++
	return node
}

func (pl *priceLevel) unlink(node *orderNode) {
	if node.prev != nil {
		node.prev.next = node.next
	} else {
		pl.head = node.next
	}
	if node.next != nil {
		node.next.prev = node.prev
	} else {
		pl.tail = node.prev
	}
	node.prev = nil
	node.next = nil
	node.level = nil
	pl.size--
}

// orderSide holds one side's price levels ordered best-first. Bids
// compare descending, asks ascending, so Min() is always the best level.
type orderSide struct {
	levels *btree.BTreeG[*priceLevel]
	count  int
}

func newOrderSide(side Side) *orderSide {
	var less func(a, b *priceLevel) bool
	if side == Buy {
		less = func(a, b *priceLevel) bool { return a.price.GreaterThan(b.price) }
	} else {
		less = func(a, b *priceLevel) bool { return a.price.LessThan(b.price) }
	}
	return &orderSide{levels: btree.NewBTreeG(less)}
}

// level returns the price level for the exact price, or nil
func (os *orderSide) level(price fpdecimal.Decimal) *priceLevel {
	pl, ok := os.levels.Get(&priceLevel{price: price})
	if !ok {
		return nil
	}
	return pl
}

// append adds the order to the tail of its price level, creating the
// level on first use.
func (os *orderSide) append(order *Order) *orderNode {
	pl := os.level(order.Price())
	if pl == nil {
		pl = &priceLevel{price: order.Price()}
		os.levels.Set(pl)
	}
	os.count++
	return pl.append(order)
}

// remove unlinks the node and drops its level once empty. Empty levels
// are never left in the tree.
func (os *orderSide) remove(node *orderNode) {
	pl := node.level
	pl.unlink(node)
	os.count--
	if pl.size == 0 {
		os.levels.Delete(pl)
	}
}

// best returns the best-priced level, or nil if the side is empty
func (os *orderSide) best() *priceLevel {
	pl, ok := os.levels.Min()
	if !ok {
		return nil
	}
	return pl
}

// String implements fmt.Stringer interface
func (os *orderSide) String() string {
	sb := strings.Builder{}
	os.levels.Scan(func(pl *priceLevel) bool {
		sb.WriteString(fmt.Sprintf("\n%s -> orders: %d", pl.price.String(), pl.size))
		return true
	})
	return sb.String()
}
