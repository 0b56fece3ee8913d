// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import "time"

// PaperAuthorLabel is the static author attribution on generated papers.
const PaperAuthorLabel = "Autonomous Research Agent"

// PaperSectionNames is the fixed section layout of a generated paper.
var PaperSectionNames = []string{
	"Abstract",
	"Introduction",
	"Literature Review",
	"Research Gaps",
	"Proposed Approach",
	"Conclusion",
}

// Paper is a locally synthesized record of a generated research paper.
// It is built client-side from the pipeline's success result and kept in
// the bounded recent-papers list.
type Paper struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	Abstract    string    `json:"abstract"`
	Sections    []string  `json:"sections"`
	GeneratedAt time.Time `json:"generated_at"`

	// DownloadRef points at the backend's PDF for this paper, or a
	// placeholder when the pipeline did not report one.
	DownloadRef string `json:"download_ref"`
}
