package schema

import (
	"github.com/leadscope-jp/shop-resolver/internal/model"
)

// RepresentativeInstruction is the stage-1 contract: per-page
// same-business match judgment plus representative extraction. The
// oracle must answer with the JSON shape parsed by
// ParseRepresentative; anything else is discarded.
const RepresentativeInstruction = `あなたは日本の店舗情報を解析するアシスタントです。

与えられた複数のWebページのテキストから、
「指定された店舗」の情報かどうかを判定し、
もし代表者名・オーナー名・店主など、その店舗のトップに関する情報があれば抽出して報告してください。

【やること】

1. 各ページごとに、そこに書かれている店舗が
   target_shop の「店名」と「住所」と同一の店かどうかを判定してください。
   - 完全一致でなくても構いませんが、
     店名と住所の両方について、文脈的にほぼ同一店舗と判断できる場合のみ true としてください。
   - チェーン店や類似名の別店舗の場合は false にしてください。
   - 「テナント募集」「前テナント」「過去に入居していた店舗」などは false にしてください。

2. 対象店舗と一致すると判断したページについてのみ、
   以下のような「店のトップ」に関する情報を探してください。
   - 代表者
   - 代表者名
   - 代表
   - 代表取締役
   - オーナー
   - 店主
   - マスター
   - 経営者
   など、それに相当する表現。

   ただし、以下は対象外です：
   - グルメサイト（食べログ等）の運営会社の代表者
   - HP制作会社・システム会社の代表者
   - 不動産会社・管理会社の担当者・代表者
   - 取材記事の「記者」「ライター」「編集者」
   - 個人紹介だが店との関係が明確でない人

3. 見つかった場合は、
   - 個人名（代表者名・オーナー名など）
   - 会社名（株式会社○○ など運営法人。分かる範囲で）
   - その情報が載っていた原文の抜粋（周辺数行）
   を抽出してください。

4. 情報があいまい、推測レベル、別店舗の可能性が高い場合は、
   is_match を false にし、代表者情報は抽出しないでください。

5. 出力は、必ず以下の JSON 形式で返してください。
   それ以外の文章は一切書かないでください。

【入力形式（論理的構造）】

- target_shop:
  - name: 店名（文字列）
  - address: 住所（文字列）

- pages: 最大3件までのページ情報リスト。各要素は以下の形式です。
  - url: ページURL
  - text: ページ本文のテキスト（HTMLから抽出済み）

【出力形式（必ずこのJSONのみ）】

{
  "target_shop": {
    "name": "string",
    "address": "string"
  },
  "pages": [
    {
      "url": "string",
      "is_match": true or false,
      "reason": "string",
      "has_representative_info": true or false,
      "representative_name": "string or null",
      "representative_title": "string or null",
      "company_name": "string or null",
      "raw_snippet": "string or null",
      "confidence": 0.0
    }
  ],
  "has_any_representative_info": true or false
}`

// RepresentativePayload is the structured user payload for the
// stage-1 contract.
type RepresentativePayload struct {
	TargetShop model.ShopQuery      `json:"target_shop"`
	Pages      []model.PageDocument `json:"pages"`
}

// RepresentativePage is the oracle's per-page judgment.
type RepresentativePage struct {
	URL                   string  `json:"url"`
	IsMatch               bool    `json:"is_match"`
	Reason                string  `json:"reason"`
	HasRepresentativeInfo bool    `json:"has_representative_info"`
	RepresentativeName    string  `json:"representative_name"`
	RepresentativeTitle   string  `json:"representative_title"`
	CompanyName           string  `json:"company_name"`
	RawSnippet            string  `json:"raw_snippet"`
	Confidence            float64 `json:"confidence"`
}

// RepresentativeResponse is the full stage-1 oracle response.
type RepresentativeResponse struct {
	Pages                    []RepresentativePage `json:"pages"`
	HasAnyRepresentativeInfo bool                 `json:"has_any_representative_info"`
}

// ParseRepresentative decodes a stage-1 oracle reply. Malformed output
// yields (nil, false): no evidence, never an error the pipeline has to
// handle.
func ParseRepresentative(raw string) (*RepresentativeResponse, bool) {
	var resp RepresentativeResponse
	if err := decodeStrict(raw, &resp); err != nil {
		return nil, false
	}
	return &resp, true
}
