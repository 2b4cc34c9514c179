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

package netsvr

import (
	"net/http"

	"github.com/zintix-labs/packlab/server/app"
)

// NetSvr 路由行為 + 服務啟停。
//   - 只交給最外層組裝使用，handler / 子模組只面向 NetRouter。
//   - 同時實作 app.Component，可以直接交給 app.App 管理生命週期。
type NetSvr interface {
	NetRouter
	app.Component
	// Handler 完整的 http.Handler（測試時交給 httptest.Server）。
	Handler() http.Handler
}

// NetRouter 純路由行為；刻意不含 Run/Shutdown，避免子模組控制 server 生命週期。
type NetRouter interface {
	Use(middleware func(http.Handler) http.Handler)

	Get(path string, h http.HandlerFunc)
	Post(path string, h http.HandlerFunc)

	// Group 建立子路由；在回呼內 Use 的 middleware 只作用於該群組。
	Group(path string, fn func(NetRouter))
}
