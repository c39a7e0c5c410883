package model

// カートの1明細（quantity >= 1）
type CartEntry struct {
	ProductID int64 `json:"product_id"`
	Quantity  int64 `json:"quantity"`
}

// セッション内のカート。追加順を保つ。
type Cart struct {
	entries []CartEntry
}

// 数量（無ければ0）
func (c *Cart) Quantity(productID int64) int64 {
	for _, e := range c.entries {
		if e.ProductID == productID {
			return e.Quantity
		}
	}
	return 0
}

// 数量を設定する。0以下なら明細を消す。
func (c *Cart) Set(productID int64, qty int64) {
	if qty <= 0 {
		c.Remove(productID)
		return
	}
	for i := range c.entries {
		if c.entries[i].ProductID == productID {
			c.entries[i].Quantity = qty
			return
		}
	}
	c.entries = append(c.entries, CartEntry{ProductID: productID, Quantity: qty})
}

// 明細ごと削除。存在したかを返す。
func (c *Cart) Remove(productID int64) bool {
	for i, e := range c.entries {
		if e.ProductID == productID {
			c.entries = append(c.entries[:i], c.entries[i+1:]...)
			return true
		}
	}
	return false
}

func (c *Cart) Entries() []CartEntry {
	out := make([]CartEntry, len(c.entries))
	copy(out, c.entries)
	return out
}

// 追加順の商品ID
func (c *Cart) ProductIDs() []int64 {
	out := make([]int64, len(c.entries))
	for i, e := range c.entries {
		out[i] = e.ProductID
	}
	return out
}

func (c *Cart) Len() int {
	return len(c.entries)
}

func (c *Cart) IsEmpty() bool {
	return len(c.entries) == 0
}

func (c *Cart) Reset() {
	c.entries = nil
}
