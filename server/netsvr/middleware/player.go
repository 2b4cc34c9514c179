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

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/zintix-labs/packlab/apiclient"
	"github.com/zintix-labs/packlab/server/httperr"
)

type playerKey struct{}

// maxPlayerIDLen 玩家識別長度上限（UUID 為 36）
const maxPlayerIDLen = 128

// Player 要求每個請求帶 X-Player-Id，並放進 context。
// 缺少或格式不合理時回 400。
func Player(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(apiclient.HeaderPlayerID))
		if id == "" || len(id) > maxPlayerIDLen {
			httperr.Write(w, http.StatusBadRequest, "missing or invalid "+apiclient.HeaderPlayerID)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), playerKey{}, id)))
	})
}

// PlayerID 取得 Player middleware 放入的識別；沒有時回傳空字串。
func PlayerID(r *http.Request) string {
	id, _ := r.Context().Value(playerKey{}).(string)
	return id
}
