package seed

// bcrypt("password123")。デモユーザー全員で共通
const DemoPasswordHash = "$2b$10$T9vDN1QHdGzm7IZ5tWYn3uZ60RxC4KVk4queR2GdD3esaA7NVOFqu"

type userSeed struct {
	username string
	name     string
	email    string
	isAdmin  bool
}

var users = []userSeed{
	{username: "admin", name: "Admin", email: "admin@example.com", isAdmin: true},
	{username: "user1", name: "John Doe", email: "john@example.com"},
	{username: "user2", name: "Jane Smith", email: "jane@example.com"},
	{username: "user3", name: "Robert Johnson", email: "robert@example.com"},
	{username: "user4", name: "Emily Davis", email: "emily@example.com"},
	{username: "user5", name: "Michael Wilson", email: "michael@example.com"},
}

const flixcart = "https://rukminim1.flixcart.com/flap/128/128/image/"

var categories = []struct{ name, image string }{
	{"Grocery", flixcart + "29327f40e9c4d26b.png"},
	{"Mobiles", flixcart + "22fddf3c7da4c4f4.png"},
	{"Fashion", flixcart + "c12afc017e6f24cb.png"},
	{"Electronics", flixcart + "69c6589653afdb9a.png"},
	{"Home", flixcart + "ab7e2b022a4587dd.jpg"},
	{"Appliances", flixcart + "0ff199d1bd27eb98.png"},
	{"Travel", flixcart + "71050627a56b4693.png"},
	{"Top Offers", flixcart + "f15c02bfeb02d15d.png"},
	{"Beauty", flixcart + "dff3f7adcf3a90c6.png"},
}

const (
	unsplash   = "https://images.unsplash.com/"
	bannerSize = "?w=1200&h=300&fit=crop"
	thumbSize  = "?w=400&h=400&fit=crop"
)

var banners = []struct{ image, link string }{
	{unsplash + "photo-1593642632823-8f785ba67e45" + bannerSize, "/electronics"},
	{unsplash + "photo-1445205170230-053b83016050" + bannerSize, "/fashion"},
	{unsplash + "photo-1607083206870-f8b9affcd026" + bannerSize, "/offers"},
	{unsplash + "photo-1513506003901-1e6a229e2d15" + bannerSize, "/home"},
	{unsplash + "photo-1607082348824-0a96f2a4b9da" + bannerSize, "/top-offers"},
}

type productSeed struct {
	title       string
	description string
	price       float64
	discount    float64
	rating      float64
	stock       int64
	brand       string
	category    string
	// unsplashの写真ID。先頭がサムネイル
	photos [2]string
}

var products = []productSeed{
	{"Wireless Earbuds", "High quality wireless earbuds with noise cancellation", 1499, 25, 4.5, 100, "boAt", "Electronics",
		[2]string{"photo-1606220588913-b3aacb4d2f46", "photo-1572569511254-d8f925fe2cbb"}},
	{"Gaming Mouse", "Ergonomic gaming mouse with customizable RGB lights", 1999, 40, 4.7, 50, "Logitech", "Electronics",
		[2]string{"photo-1605773527852-c546a8584ea3", "photo-1615663245857-ac93bb7c39e7"}},
	{"Bluetooth Speakers", "Portable Bluetooth speaker with 20 hours battery life", 2499, 70, 4.3, 75, "JBL", "Electronics",
		[2]string{"photo-1608043152269-423dbba4e7e1", "photo-1589003077984-894e133dabab"}},
	{"4K Smart TV", "55-inch 4K Ultra HD Smart LED TV with HDR", 45999, 15, 4.6, 30, "Samsung", "Electronics",
		[2]string{"photo-1593359677879-a4bb92f829d1", "photo-1601944177325-f8867652837f"}},
	{"Trimmer", "Rechargeable trimmer with multiple attachments", 1299, 35, 4.2, 120, "Philips", "Electronics",
		[2]string{"photo-1585914643208-46d2eaec3030", "photo-1589782431097-ffc26baa6fc9"}},
	{"Gaming Laptop", "15.6-inch gaming laptop with dedicated GPU", 76990, 10, 4.8, 25, "Asus", "Electronics",
		[2]string{"photo-1603302576837-37561b2e2302", "photo-1511385348-a52b4a160dc2"}},

	{"Casual Shirts", "100% cotton casual shirts for men", 799, 50, 4.1, 200, "Allen Solly", "Fashion",
		[2]string{"photo-1596755094514-f87e34085b2c", "photo-1598032895397-b9472444bf93"}},
	{"Women's Tops", "Stylish tops for women in various colors", 599, 50, 4.4, 150, "H&M", "Fashion",
		[2]string{"photo-1567401893414-76b7b1e5a7a5", "photo-1619603364904-c0498317e145"}},
	{"Running Shoes", "Lightweight running shoes with cushioned insoles", 2999, 60, 4.6, 80, "Nike", "Fashion",
		[2]string{"photo-1542291026-7eec264c27ff", "photo-1607522370275-f14206abe5d3"}},
	{"Watches", "Stainless steel analog watches for men", 2499, 30, 4.5, 60, "Fossil", "Fashion",
		[2]string{"photo-1524805444758-089113d48a6d", "photo-1522312346375-d1a52e2b99b3"}},
	{"Denim Jeans", "Slim-fit denim jeans for men", 1499, 45, 4.3, 100, "Levi's", "Fashion",
		[2]string{"photo-1542272604-787c3835535d", "photo-1541099649105-f69ad21f3246"}},
	{"Sunglasses", "UV protected sunglasses with polarized lenses", 1299, 25, 4.2, 70, "Ray-Ban", "Fashion",
		[2]string{"photo-1572635196237-14b3f281503f", "photo-1511499767150-a48a237f0083"}},

	{"Mixer Grinders", "750W mixer grinder with 3 jars", 2499, 40, 4.3, 50, "Prestige", "Home",
		[2]string{"photo-1626806787461-102c1a75f344", "photo-1577460551100-d3f8103db5f1"}},
	{"Cotton Bedsheets", "King size 100% cotton bedsheets with 2 pillow covers", 1299, 50, 4.5, 100, "Bombay Dyeing", "Home",
		[2]string{"photo-1629949009714-fd4df7ae10f8", "photo-1584100936595-c0654b55a2e2"}},
	{"Steel Water Bottles", "Insulated stainless steel water bottle, 750ml", 899, 60, 4.2, 150, "Milton", "Home",
		[2]string{"photo-1589365278144-c9e705f843ba", "photo-1610824352934-c10d87b700cc"}},
	{"Induction Cooktops", "1800W induction cooktop with auto shut-off", 2999, 35, 4.4, 40, "Prestige", "Home",
		[2]string{"photo-1596223575327-89789efe0469", "photo-1495433324511-bf8e92934d90"}},
	{"Cookware Sets", "5-piece non-stick cookware set", 2499, 45, 4.6, 30, "Hawkins", "Home",
		[2]string{"photo-1584283626938-86939326ae65", "photo-1590794056486-986bf7f3473f"}},
	{"Air Fryers", "Digital air fryer with 4.5L capacity", 4999, 25, 4.7, 20, "Philips", "Home",
		[2]string{"photo-1648649893252-296c7123646b", "photo-1600367163359-d51d40bcb5f8"}},
}

const (
	historicalOrders = 15
	historyDays      = 90
	// 注文明細に使う商品は先頭10件から選ぶ
	orderableProducts = 10
)

var paymentMethods = []string{"UPI", "Credit Card", "Cash on Delivery"}
