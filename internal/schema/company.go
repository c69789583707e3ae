package schema

import (
	"fmt"
	"strings"
)

// companyNoMatchSentinel is the sentinel the company-name contract
// returns when no page matched the target shop at all. It exists only
// at this parse boundary.
const companyNoMatchSentinel = "False"

// CompanyOutcomeKind classifies the three-tier result of the
// company-name contract.
type CompanyOutcomeKind int

const (
	// CompanyNoMatch: no page described the target shop.
	CompanyNoMatch CompanyOutcomeKind = iota
	// CompanyShopNameEchoed: the shop matched but no distinct operating
	// entity was named.
	CompanyShopNameEchoed
	// CompanyFound: a specific operating entity was named.
	CompanyFound
)

// CompanyOutcome is the typed result of ParseCompanyName. Name is set
// only for CompanyFound and CompanyShopNameEchoed (the echoed shop
// name, preserved verbatim for the terminal record).
type CompanyOutcome struct {
	Kind CompanyOutcomeKind
	Name string
}

// companyInstructionTemplate carries the strict three-step decision
// policy for operator extraction. Placeholders: shop name, shop
// address, repeated where the original wording repeats them.
const companyInstructionTemplate = `
あなたは日本の店舗情報を「非常に厳格な基準」で精密に解析するAIエージェントです。

以下には、複数のWebページから抽出されたテキストが含まれています。
これらは必ずしも同じ店舗の情報とは限りません。
また、ページ内には無関係な法人名・サイト運営会社名・他店舗の情報が混在している可能性があります。

あなたの最重要ミッションは、
「対象店舗 *だけ* の運営法人名を、誤検出なしで特定すること」です。
あいまいな場合は、無理に法人名を決めず、ルールに従って安全側に倒れてください。

---

【対象店舗】
- 店名: %[1]s
- 住所: %[2]s

---

【全体ルール（絶対遵守）】

- 対象店舗と無関係なページ内容・法人名はすべて無視すること
- 想像で法人名を作らないこと（補完・創作は禁止）
- ページに書かれていない法人名を推測で書かないこと
- 「食べログ」「ぐるなび」「ホットペッパー」などのグルメサイト運営会社名を
  対象店舗の法人名として絶対に採用しないこと
- クレジットカード会社・決済代行業者・ビルオーナー・広告代理店などの
  第三者企業名も、対象店舗の法人名として採用してはいけない

---
【このようなページも「対象店舗に関連するページ」として扱う】

以下のような文章が含まれている場合は、
住所が %[2]s と完全一致していなくても、
対象店舗に関連するページとして扱ってよい：

例：
「麺JAPAN株式会社（本社：東京都新宿区…）は、
 東京都東村山市の店舗『新潟発祥 なおじ東村山店』及び
 『東村山 ごちそうや ぽっ蔵』において、新商品◯◯の販売を開始します。」

このように、

- 冒頭に法人名（株式会社◯◯ など）があり、
- 文中に対象店舗の店名（%[1]s）が明示されていて、
- 「◯◯株式会社は、◯◯店において…」という構造になっている場合、

その法人名は対象店舗の「運営会社の有力候補」として扱ってよい。

=====================
【ステップ1：一致判定（最重要）】
=====================

各ページ（テキスト）ごとに、
「そのページが対象店舗 *だけ* に関する情報か」を厳密に判定してください。

以下の情報から一致度を総合的に判断します：

- 店名の一致
  - 完全一致
  - 表記ゆれ（ひらがな/カタカナ/漢字/英字・全角半角）も考慮
  - 「○○店」「○○本店」などの枝番表現も考慮

- 住所の一致
  - 都道府県・市区町村レベルで対象住所と一致していること
  - 丁目・番地・号が概ね一致していること
  - ビル名・フロアの違いは許容（同一ビル内の別テナントは要注意）

- 電話番号
  - 対象店舗の電話番号と完全一致していれば、非常に強い一致根拠
  - 番号が異なる場合、そのページは別店舗の可能性が高い

- 店舗特徴・文脈
  - メニュー内容
  - 価格帯
  - 営業時間
  - 席数・内装の特徴
  - 口コミ内容などが、対象店舗と矛盾していないか

【チェーン店・同名店舗への注意】
- 同じ店名で複数の住所が出てくる場合、
  対象住所 %[2]s と異なる住所のページは「別店舗」とみなし、一致しないと判断すること。
- 「◯◯（新宿店）」「◯◯（渋谷店）」のように支店名がある場合も、
  対象住所と一致しない店舗は一致対象から外すこと。

【ステップ1の結論】
- 対象店舗と明確に紐づくと判断できたページだけを「一致したページ」とする
- 一致しているか判断できない曖昧なページは「一致していない」とみなし、完全に無視する

一致していないページは、
そのページ内にどんな法人名が書かれていても、絶対に使ってはいけません。

---

=====================
【ステップ2：法人名の抽出（対象店舗に一致したページのみ）】
=====================

ステップ1で「一致した」と判断できたページの中だけを使い、
その店舗の「運営会社（法人）」に関する情報を探してください。

探すべき記述の例：

- 「運営会社：◯◯」
- 「会社概要」「会社情報」「事業者」「法人名」「運営事業者」
- 「株式会社◯◯」「合同会社◯◯」「有限会社◯◯」
- 「◯◯株式会社」のように社名が前後反転した表記
- 「◯◯を運営する株式会社△△」のように、店舗名と法人名が紐づいている記述

【強く採用すべきパターン】
- 法人名の近くに、対象店舗の店名（%[1]s）や
  「当店」「本店舗」「◯◯店」といった表現がある
- 「店舗情報」「会社概要」など、明らかにその店の運営会社を説明している箇所に法人名が書かれている

【絶対に採用してはいけない法人名の例】
- グルメサイト・予約サイト・口コミサイト・ポータルサイトの運営会社
  - 例：「このサイトを運営する株式会社◯◯」「食べログを運営する株式会社カカクコム」など
- 決済サービス・クレジットカード会社・ポイントサービス会社
- 配送業者（○○運輸など）
- 広告代理店・制作会社（サイトを制作した会社など）
- まったく別の店舗（支店・系列店を含む）の法人名
- 単なる挨拶や取引先紹介に出てくる他社名

【複数候補がある場合の扱い】
- 対象店舗ともっとも強く結びついた法人名を 1 つだけ選んでください。
  - 店舗名との近接
  - 「運営会社」「事業者」「会社概要」などの語との近接
  - 対象住所との一致 などを総合して判断
- どの法人名が対象店舗のものか明確に判断できない場合、
  「法人名は特定不能」とみなし、ステップ3のルール2または3に従ってください。
  （あいまいな候補を無理に result に入れてはいけません）

---

=====================
【ステップ3：最終判断】
=====================

以下のルールに従って、最終的な "result" を 1 つだけ決定してください。

1. 対象店舗に一致したページの中に、
   「対象店舗の運営会社」であると明確に判断できる法人名がある場合
   → その法人名をそのまま result に入れる

2. 対象店舗に一致したページはあるが、
   - 法人名の記載が見つからない
   - または、どの法人名が対象店舗のものか判別できない（候補が曖昧）
   → 店舗名（%[1]s）を result に入れる

3. すべてのページが対象店舗に一致しない場合
   → "False" を result に入れる

---

【出力上の厳守事項】

- 出力は以下の JSON 形式のみとすること。
- 説明文・コメント・推論過程など、JSON以外の文字列は一切出力してはいけません。
- result には次のいずれかのみを入れてください：
  - 抽出した法人名（完全な法人名）
  - 店舗名（%[1]s）
  - "False"

【出力形式（必ずこのJSONだけを返す）】

{
  "result": "string"   // 法人名 or 店舗名 or "False"
}

---

【ページ内容】
%[3]s
`

// CompanyInstruction renders the company-name contract for one shop
// and its evidence blob.
func CompanyInstruction(shopName, shopAddress, evidence string) string {
	return fmt.Sprintf(companyInstructionTemplate, shopName, shopAddress, evidence)
}

// ParseCompanyName decodes a company-name oracle reply into a typed
// three-tier outcome. Malformed output and empty results collapse to
// CompanyNoMatch; the echoed shop name is recognized by exact equality
// with the input, which is the contract's own convention.
func ParseCompanyName(raw, shopName string) CompanyOutcome {
	var resp singleResult
	if err := decodeStrict(raw, &resp); err != nil {
		return CompanyOutcome{Kind: CompanyNoMatch}
	}

	result := strings.TrimSpace(resp.Result)
	switch {
	case result == "" || result == companyNoMatchSentinel:
		return CompanyOutcome{Kind: CompanyNoMatch}
	case result == shopName:
		return CompanyOutcome{Kind: CompanyShopNameEchoed, Name: result}
	default:
		return CompanyOutcome{Kind: CompanyFound, Name: result}
	}
}
