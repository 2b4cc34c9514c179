// Copyright 2025 Zintix Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package dto

import (
	"bytes"
	"encoding/json"

	"github.com/zintix-labs/packlab/errs"
)

// rawInventory 同時容納三種已知形狀：
//
//	{ "balance": {...}, "items": [...] }
//	{ "inventory": { "balance": ..., "items": ... } }
//	{ "inv": { "balance": ..., "items": ... } }
type rawInventory struct {
	Balance   Balance       `json:"balance"`
	Items     []ItemRef     `json:"items"`
	Inventory *rawInventory `json:"inventory"`
	Inv       *rawInventory `json:"inv"`
}

// NormalizeInventory 把任一已知形狀的庫存回應轉成標準 InventorySnapshot。
//
// 規則：
//   - 巢狀 inventory 優先於 inv，兩者都沒有時才讀頂層欄位。
//   - 缺少 balance 時為 {COIN:0}；缺少 COIN 時補 0；缺少 items 時為空陣列。
//   - 空 body 或 null 視為全部缺省。
func NormalizeInventory(raw []byte) (InventorySnapshot, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return EmptyInventory(), nil
	}
	var r rawInventory
	if err := json.Unmarshal(raw, &r); err != nil {
		return InventorySnapshot{}, errs.Wrap(err, "decode inventory failed")
	}
	src := &r
	switch {
	case r.Inventory != nil:
		src = r.Inventory
	case r.Inv != nil:
		src = r.Inv
	}
	return canonical(src.Balance, src.Items), nil
}

func canonical(bal Balance, items []ItemRef) InventorySnapshot {
	out := EmptyInventory()
	for k, v := range bal {
		out.Balance[k] = v
	}
	if out.Balance[CoinCurrency] < 0 {
		out.Balance[CoinCurrency] = 0
	}
	if len(items) > 0 {
		out.Items = append(out.Items, items...)
	}
	return out
}
