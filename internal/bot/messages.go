package bot

import (
	"fmt"
	"strings"
	"time"

	"storebot/internal/domain/model"

	ptime "github.com/yaa110/go-persian-calendar"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	msgWelcome         = "🎉 به فروشگاه خوش اومدی! یکی از گزینه‌ها رو انتخاب کن:"
	msgChoose          = "لطفا انتخاب کنید:"
	msgHelp            = "📖 دستورها:\n/start منوی اصلی\n/login ورود یا ثبت‌نام\n/register ثبت‌نام\n/logout خروج\n/cancel لغو عملیات جاری\n/categories دسته‌بندی‌ها\n/search عبارت جستجو\n/cart سبد خرید\n/orders سفارش‌ها"
	msgUseStart        = "ℹ️ برای شروع /start را بزنید."
	msgUnknownCommand  = "❓ دستور ناشناخته. /help را ببینید."
	msgGenericError    = "❌ خطایی رخ داد. لطفاً دوباره تلاش کنید."
	msgPersistence     = "❌ خطا در ارتباط با پایگاه داده. لطفاً دوباره تلاش کنید."
	msgLoginRequired   = "❗ ابتدا وارد شوید."
	msgAlreadyLoggedIn = "ℹ️ شما وارد شده‌اید. برای خروج /logout را بزنید."

	msgAskLoginEmail     = "لطفا ایمیل خود را وارد کنید:"
	msgAskLoginPassword  = "لطفا رمز عبور خود را وارد کنید:"
	msgAskFirstName      = "لطفا نام خود را وارد کنید:"
	msgAskLastName       = "لطفا نام خانوادگی خود را وارد کنید:"
	msgAskEmail          = "لطفا ایمیل خود را وارد کنید:"
	msgAskPassword       = "لطفا رمز عبور خود را وارد کنید (حداقل ۸ کاراکتر):"
	msgAskPhone          = "لطفا شماره تلفن خود را وارد کنید:"
	msgLoginOK           = "✅ ورود موفقیت‌آمیز بود!"
	msgLoginFailed       = "❌ ایمیل یا رمز عبور اشتباه است!"
	msgRegisterOK        = "✅ ثبت‌نام موفقیت‌آمیز بود! اکنون با /login وارد شوید."
	msgDuplicateEmail    = "❌ این ایمیل قبلاً ثبت شده است."
	msgInvalidRequired   = "❗ این مقدار نمی‌تواند خالی باشد. دوباره وارد کنید:"
	msgInvalidTooLong    = "❗ مقدار وارد شده بیش از حد طولانی است. دوباره وارد کنید:"
	msgInvalidEmail      = "❗ ایمیل معتبر نیست. دوباره وارد کنید:"
	msgInvalidPassword   = "❗ رمز عبور باید حداقل ۸ کاراکتر باشد. دوباره وارد کنید:"
	msgPasswordTooLong   = "❗ رمز عبور بیش از حد طولانی است (حداکثر ۷۲ بایت). دوباره وارد کنید:"
	msgInvalidPhone      = "❗ شماره تلفن معتبر نیست. دوباره وارد کنید:"
	msgCancelled         = "❎ عملیات لغو شد."
	msgNothingToCancel   = "ℹ️ عملیاتی در جریان نیست."
	msgLoggedOut         = "👋 از حساب خود خارج شدید."
	msgNotLoggedIn       = "ℹ️ وارد حساب نشده‌اید."
	msgLogoutPartialFail = "⚠️ از حساب خارج شدید اما آزادسازی رزروها ناموفق بود."

	msgCategories   = "📚 لطفاً یک دسته‌بندی را انتخاب کن:"
	msgNoCategories = "❌ هیچ دسته‌ای پیدا نشد."
	msgNoProducts   = "❌ هیچ محصولی در این دسته یافت نشد."
	msgProductsNav  = "📦 صفحه محصولات:"
	msgPickCategory = "❗ ابتدا یک دسته‌بندی را انتخاب کنید: /categories"
	msgOutOfStock   = "❌ موجودی نداره"
	msgNoImage      = "🚫 تصویر یافت نشد."
	msgSearchUsage  = "❌ لطفاً یک عبارت برای جستجو وارد کنید.\nمثال: /search گوشی"
	msgSearchHint   = "🔍 دستور جستجو:\n/search گوشی"
	msgNoResults    = "❌ محصولی با این مشخصات یافت نشد."

	msgBookmarked      = "✅ به علاقه‌مندی‌ها افزوده شد."
	msgAlreadyBookmark = "⭐ قبلاً به علاقه‌مندی افزوده شده."
	msgProductNotFound = "❌ محصول یافت نشد."

	msgAddedToCart    = "🛒 به سبد خرید افزوده شد. تعداد: %d"
	msgLimitExceeded  = "❗ حداکثر تعداد مجاز برای این محصول %d عدد است."
	msgCartEmpty      = "🛒 سبد خرید شما خالی است."
	msgCartTotal      = "💵 مجموع کل: %s تومان"
	msgRemoved        = "✅ محصول از سبد خرید حذف شد."
	msgNotInCart      = "❗ این محصول در سبد خرید شما نیست."
	msgCartCleared    = "🗑 سبد خرید خالی شد."
	msgPayLink        = "برای پرداخت روی دکمه زیر کلیک کنید:"
	msgGatewayFailed  = "❌ خطا در پاسخ سرور پرداخت."
	msgAnonymousCart  = "ℹ️ برای پرداخت ابتدا وارد شوید: /login"
	msgOrphanedInCart = "⚠️ %d محصول دیگر در فروشگاه موجود نیست و در جمع حساب نشد."

	msgNoOrders        = "📦 هیچ سفارشی ثبت نشده."
	msgOrdersNav       = "📑 صفحه سفارش‌ها:"
	msgOrderImagesNone = "❌ تصویر محصولات سفارش یافت نشد."
)

const (
	btnLoginRegister = "ورود / ثبت‌نام"
	btnCategories    = "دسته‌بندی محصولات"
	btnSearch        = "جستجوی محصول"
	btnCart          = "سبد خرید"
	btnOrders        = "سفارش‌ها"
	btnLogin         = "ورود"
	btnRegister      = "ثبت‌نام"
	btnNext          = "بعدی ⏩"
	btnPrev          = "⏪ قبلی"
	btnBookmark      = "⭐ علاقه‌مندی"
	btnBookmarkOnly  = "⭐ افزودن به علاقه‌مندی‌ها"
	btnAddCart       = "🛒 افزودن به سبد خرید"
	btnRemove        = "❌ حذف"
	btnPay           = "💳 پرداخت"
	btnRetryPay      = "🔁 تلاش دوباره"
	btnClearCart     = "🗑 خالی کردن سبد"
	btnPayPage       = "🔗 مشاهده صفحه پرداخت"
	btnOrderImages   = "📷 تصاویر محصولات"
)

var statusLabels = map[model.OrderStatus]string{
	model.OrderStatusProcessing: "در حال پردازش",
	model.OrderStatusShipped:    "ارسال شده",
	model.OrderStatusDelivered:  "تحویل‌شده",
	model.OrderStatusReturned:   "مرجوع شده",
}

var pricePrinter = message.NewPrinter(language.English)

// 1234567 -> "1,234,567"
func formatPrice(v int64) string {
	return pricePrinter.Sprintf("%d", v)
}

// 日付は太陽暦（ジャラーリー暦）で表示する
func formatDate(t time.Time) string {
	return ptime.New(t).Format("yyyy/MM/dd") + " ساعت " + t.Format("15:04")
}

func statusLabel(s model.OrderStatus) string {
	if l, ok := statusLabels[model.OrderStatus(strings.ToLower(string(s)))]; ok {
		return l
	}
	return string(s)
}

func productCaption(p model.Product) string {
	var b strings.Builder
	if p.Brand != "" {
		fmt.Fprintf(&b, "🛍 %s (%s)\n", p.Name, p.Brand)
	} else {
		fmt.Fprintf(&b, "🛍 %s\n", p.Name)
	}
	if p.Description != "" {
		fmt.Fprintf(&b, "📄 %s\n", p.Description)
	}
	fmt.Fprintf(&b, "💰 قیمت اصلی: %s تومان\n", formatPrice(p.Price))
	fmt.Fprintf(&b, "🎯 تخفیف: %d%%\n", p.Discount)
	fmt.Fprintf(&b, "💵 قیمت نهایی: %s تومان", formatPrice(p.FinalPrice()))
	if !p.InStock() {
		b.WriteString("\n" + msgOutOfStock)
	}
	return b.String()
}

func cartLineCaption(name string, qty int64, unit int64, total int64) string {
	return fmt.Sprintf("🛍 %s\nتعداد: %d\nقیمت واحد: %s تومان\nجمع: %s تومان",
		name, qty, formatPrice(unit), formatPrice(total))
}

func orderHeader(o model.Order) string {
	return fmt.Sprintf("🧾 سفارش #%d\nتاریخ ثبت: %s\nوضعیت: %s\n", o.ID, formatDate(o.CreatedAt), statusLabel(o.Status))
}

func orderLineText(l model.OrderLine) string {
	return fmt.Sprintf("🔸 %s\nتعداد: %d\nقیمت: %s\nجمع: %s",
		l.ProductName, l.Quantity, formatPrice(l.Price), formatPrice(l.LineTotal()))
}
