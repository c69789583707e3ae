package schema

import (
	"fmt"
	"regexp"
	"strings"
)

// invoiceNumberPattern is the fixed lexical form of a qualified
// invoice issuer registration number: T followed by exactly 13 digits.
var invoiceNumberPattern = regexp.MustCompile(`^T\d{13}$`)

// invoiceInstructionTemplate asks for the invoice registration number
// of the shop/company, with strict prohibitions on guessing or
// borrowing a third party's number.
const invoiceInstructionTemplate = `
あなたは日本の税務情報・インボイス制度に詳しいAIエージェントです。

以下には、店舗およびその運営法人に関する複数のWebページから抽出されたテキストが含まれています。
あなたのミッションは、指定された店舗/法人に対応する
「適格請求書発行事業者の登録番号（インボイス番号）」を、誤検出なく特定することです。

【対象店舗】
- 店名: %[1]s
- 住所: %[2]s

【運営法人候補】
- 法人名候補: %[3]s

【探すべき情報】

- 適格請求書発行事業者の登録番号
- 一般的には「T」+ 13桁の数字の形式（例：T1234567890123）
- 「登録番号」「インボイス」「適格請求書発行事業者」などの語の近くに書かれていることが多い

【絶対にやってはいけないこと】

- 店名や法人名だけから、番号を推測・創作してはいけない
- 他社のインボイス番号を、この店舗/法人の番号として流用してはいけない
- 決済代行会社・グルメサイト運営会社・不動産会社など、
  関係のない第三者企業のインボイス番号を採用してはいけない

【採用してよい例】

- 「適格請求書発行事業者登録番号：T1234567890123」
- 「登録番号 T1234567890123」
- 「当社（株式会社◯◯）のインボイス登録番号は T1234567890123 です。」

このとき、文脈上 「株式会社◯◯」 が %[3]s である、
または対象店舗（%[1]s）を運営している会社であると判断できる場合にのみ、
その番号を result に採用してください。

【あいまいな場合の扱い】

- 複数のインボイス番号候補があり、どれが対象法人かわからない場合
- 店名・住所・法人名との対応関係がはっきりしない場合

→ 無理に番号を選ばず、"Unknown" を result にしてください。

【出力形式（必ずこのJSONだけを返す）】

{
  "result": "string"   // インボイス登録番号（例: "T1234567890123"）または "Unknown"
}

---

【ページ内容】
%[4]s
`

// InvoiceInstruction renders the invoice-number contract. companyName
// may be empty when no operator candidate is known yet.
func InvoiceInstruction(shopName, shopAddress, companyName, evidence string) string {
	candidate := companyName
	if candidate == "" {
		candidate = "（不明）"
	}
	return fmt.Sprintf(invoiceInstructionTemplate, shopName, shopAddress, candidate, evidence)
}

// ParseInvoiceNumber decodes an invoice-number oracle reply and
// validates the fixed lexical form. Anything that is not exactly
// T+13 digits — malformed JSON, the unknown sentinel, a partial or
// decorated number — is absent evidence and returns "".
func ParseInvoiceNumber(raw string) string {
	var resp singleResult
	if err := decodeStrict(raw, &resp); err != nil {
		return ""
	}

	num := strings.TrimSpace(resp.Result)
	if num == "" || strings.EqualFold(num, unknownSentinel) {
		return ""
	}
	if !invoiceNumberPattern.MatchString(num) {
		return ""
	}
	return num
}

// ValidInvoiceNumber reports whether s already has the fixed lexical
// form T + 13 digits.
func ValidInvoiceNumber(s string) bool {
	return invoiceNumberPattern.MatchString(s)
}
