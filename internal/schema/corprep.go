package schema

import (
	"fmt"
	"strings"
)

// unknownSentinel marks "could not determine" in the corporate
// representative and invoice contracts. Compared case-insensitively
// because smaller oracle models are loose about casing.
const unknownSentinel = "unknown"

// corpRepInstructionTemplate demands one current representative of the
// named company and nothing else: no former officers, no other
// companies' officers, no interviewees.
const corpRepInstructionTemplate = `
あなたは日本の法人情報を精密に解析するAIエージェントです。

以下には、法人「%[1]s」に関する複数のWebページから抽出されたテキストが含まれています。
これらには、会社概要・代表者挨拶・採用情報・ニュース記事・取引先の紹介など、
さまざまな情報が混在している可能性があります。

あなたの最重要ミッションは、
「法人 %[1]s の現在の代表者（代表取締役・代表社員・代表理事など）の氏名」を
できる限り正確に1名だけ特定することです。

---

【全体ルール（絶対遵守）】

- 想像で名前を作らないこと（補完・創作は禁止）
- 法人 %[1]s と無関係な人物名はすべて無視すること
- 過去の役職者・創業者・相談役・顧問が出てきても、
  現在の代表者と明確に書かれていない場合は採用しないこと
- 他社の代表者名・取引先の担当者名・インタビュー対象者の名前は採用してはいけない

---

【重要】
明らかに企業名が%[1]sでない場合は、そのページは無視すること。その代表者名も違う。

【代表者として採用してよい記述の例】

- 「代表取締役社長　山田太郎」
- 「代表取締役　山田太郎」
- 「代表者名：山田太郎」
- 「代表社員　山田太郎」
- 「代表理事　山田太郎」
- 「法人 %[1]s　代表　山田太郎」

【出力仕様】

- 代表者が特定できる場合
  → 代表者のフルネームだけを result に入れる（例："山田太郎"）
- 特定できない／情報がない場合
  → "Unknown" を result に入れる

【出力形式（必ずこのJSONだけを返す）】

{
  "result": "string"   // 代表者名 or "Unknown"
}

---

【ページ内容】
%[2]s
`

// CorporateRepInstruction renders the corporate-representative
// contract for one company and its evidence blob.
func CorporateRepInstruction(companyName, evidence string) string {
	return fmt.Sprintf(corpRepInstructionTemplate, companyName, evidence)
}

// ParseCorporateRep decodes a corporate-representative oracle reply.
// Returns the person's name, or "" when the reply is malformed, empty,
// or the unknown sentinel.
func ParseCorporateRep(raw string) string {
	var resp singleResult
	if err := decodeStrict(raw, &resp); err != nil {
		return ""
	}

	name := strings.TrimSpace(resp.Result)
	if name == "" || strings.EqualFold(name, unknownSentinel) {
		return ""
	}
	return name
}
