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

// Package packlab 是卡包開包客戶端的根套件。
//
// 各子套件分工：
//   - dto / apiclient：後端 wire 格式與 HTTP 客戶端。
//   - reveal：純狀態機 Apply(State, Event) -> (State, []Effect, error)，不做任何 I/O。
//   - padding：把開包結果補齊 / 截斷成固定 5 張。
//   - controller：把狀態機、API 與渲染接在一起，負責副作用與通知計時。
//   - present：由 State 推導出可顯示的 View，以及終端機渲染。
//   - server：本機開發用後端（chi），行為與正式 API 相同。
//
// 根套件本身只提供補位分佈的模擬（SimulateFiller），供 cmd/sim 與 dev 後端使用。
package packlab
