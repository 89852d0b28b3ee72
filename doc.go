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
// Package hrchat answers questions about HR policies from a corpus of HTML
// pages using retrieval augmented generation.
//
// Ingest builds a vector index from a corpus directory:
//
//	report, err := hrchat.Ingest(ctx, "./hr-policies", "hr_index")
//
// Open loads the index and connects to the configured model provider.
// Each Session keeps its own conversation history, so follow-up questions
// are understood in context:
//
//	assistant, err := hrchat.Open("hr_index", hrchat.WithAIConfig(cfg))
//	if err != nil {
//	    return err
//	}
//	defer assistant.Close()
//
//	session, err := assistant.NewSession()
//	resp, err := session.Ask(ctx, "What is the leave policy?")
//	resp, err = session.Ask(ctx, "And for new parents?")
//
// Ingestion and querying must not use the same index path within one
// process. Ingest replaces the artifact atomically, and assistants opened
// earlier keep serving the index they loaded.
package hrchat
