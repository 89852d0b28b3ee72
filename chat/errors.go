// Copyright 2025 Poiesic Systems
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
package chat

import "errors"

var (
	ErrChatModelRequired   = errors.New("chat model is required")
	ErrCondenserRequired   = errors.New("question condenser is required")
	ErrRetrieverRequired   = errors.New("retriever is required")
	ErrGeneratorRequired   = errors.New("answer generator is required")
	ErrInvalidHistoryLimit = errors.New("history limit cannot be negative")

	// ErrInvalidBudget is returned when a context budget is not positive or has no counter.
	ErrInvalidBudget = errors.New("context budget requires a positive token count and a counter")
)
